package course

import (
	"strconv"
	"strings"
)

// header maps trimmed column names to their position in the field matrix.
// Unknown columns are ignored; missing columns read as empty strings.
type header map[string]int

func newHeader(fields []string) header {
	h := make(header, len(fields))
	for i, name := range fields {
		name = strings.TrimSpace(name)
		if _, seen := h[name]; name != "" && !seen {
			h[name] = i
		}
	}
	return h
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) getInt(row []string, name string) int {
	v, err := strconv.Atoi(h.get(row, name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// TaskRow is one flat record from the tasks feed.
type TaskRow struct {
	CourseID     string
	CourseName   string
	ChapterID    string
	ChapterName  string
	LessonID     string
	LessonName   string
	TaskID       string
	Title        string
	Scenario     string
	XP           int
	PDFURLs      string
	TallyURLs    string
	AnswerKeyURL string
	Instructions string
}

// TopicRow is one flat record from the topics feed.
type TopicRow struct {
	TopicID  string
	LessonID string
	Title    string
	VideoURL string
	Order    int
}

// QuizRow is one flat record from the quiz feed.
type QuizRow struct {
	QuestionID    string
	LessonID      string
	TopicID       string
	Question      string
	Options       string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
}

// TaskRows maps a parsed field matrix (header row first) to task records.
func TaskRows(matrix [][]string) []TaskRow {
	if len(matrix) < 2 {
		return nil
	}
	h := newHeader(matrix[0])

	rows := make([]TaskRow, 0, len(matrix)-1)
	for _, rec := range matrix[1:] {
		rows = append(rows, TaskRow{
			CourseID:     h.get(rec, "courseId"),
			CourseName:   h.get(rec, "courseName"),
			ChapterID:    h.get(rec, "chapterId"),
			ChapterName:  h.get(rec, "chapterName"),
			LessonID:     h.get(rec, "lessonId"),
			LessonName:   h.get(rec, "lessonName"),
			TaskID:       h.get(rec, "taskId"),
			Title:        h.get(rec, "title"),
			Scenario:     h.get(rec, "scenario"),
			XP:           h.getInt(rec, "xp"),
			PDFURLs:      h.get(rec, "pdfUrls"),
			TallyURLs:    h.get(rec, "tallyUrls"),
			AnswerKeyURL: h.get(rec, "answerKeyUrl"),
			Instructions: h.get(rec, "instructions"),
		})
	}
	return rows
}

// TopicRows maps a parsed field matrix to topic records.
func TopicRows(matrix [][]string) []TopicRow {
	if len(matrix) < 2 {
		return nil
	}
	h := newHeader(matrix[0])

	rows := make([]TopicRow, 0, len(matrix)-1)
	for _, rec := range matrix[1:] {
		rows = append(rows, TopicRow{
			TopicID:  h.get(rec, "topicId"),
			LessonID: h.get(rec, "lessonId"),
			Title:    h.get(rec, "title"),
			VideoURL: h.get(rec, "videoUrl"),
			Order:    h.getInt(rec, "order"),
		})
	}
	return rows
}

// QuizRows maps a parsed field matrix to quiz records.
func QuizRows(matrix [][]string) []QuizRow {
	if len(matrix) < 2 {
		return nil
	}
	h := newHeader(matrix[0])

	rows := make([]QuizRow, 0, len(matrix)-1)
	for _, rec := range matrix[1:] {
		rows = append(rows, QuizRow{
			QuestionID:    h.get(rec, "questionId"),
			LessonID:      h.get(rec, "lessonId"),
			TopicID:       h.get(rec, "topicId"),
			Question:      h.get(rec, "question"),
			Options:       h.get(rec, "options"),
			OptionA:       h.get(rec, "optionA"),
			OptionB:       h.get(rec, "optionB"),
			OptionC:       h.get(rec, "optionC"),
			OptionD:       h.get(rec, "optionD"),
			CorrectOption: h.get(rec, "correctOption"),
		})
	}
	return rows
}
