package course

import (
	"log/slog"
	"net/url"
	"sort"
	"strings"
)

// BuildCourses folds flat task rows into the course hierarchy in a single
// pass. Each course, chapter, and lesson is created exactly once, keyed by
// courseId, (courseId, chapterId), and (courseId, chapterId, lessonId)
// respectively; child ordering follows first appearance in the row set. The
// first-seen name of an entity wins, later rows never overwrite it.
func BuildCourses(rows []TaskRow) []*Course {
	var courses []*Course
	courseByID := make(map[string]*Course)
	chapterByKey := make(map[string]*Chapter)
	lessonByKey := make(map[string]*Lesson)

	for _, row := range rows {
		if row.CourseID == "" || row.ChapterID == "" || row.LessonID == "" {
			continue
		}

		c, ok := courseByID[row.CourseID]
		if !ok {
			c = &Course{ID: row.CourseID, Name: row.CourseName}
			courseByID[row.CourseID] = c
			courses = append(courses, c)
		}

		chapterKey := row.CourseID + "\x00" + row.ChapterID
		ch, ok := chapterByKey[chapterKey]
		if !ok {
			ch = &Chapter{ID: row.ChapterID, Name: row.ChapterName, CourseID: row.CourseID}
			chapterByKey[chapterKey] = ch
			c.Chapters = append(c.Chapters, ch)
		}

		lessonKey := chapterKey + "\x00" + row.LessonID
		l, ok := lessonByKey[lessonKey]
		if !ok {
			l = &Lesson{
				ID:        row.LessonID,
				Name:      row.LessonName,
				ChapterID: row.ChapterID,
				CourseID:  row.CourseID,
			}
			lessonByKey[lessonKey] = l
			ch.Lessons = append(ch.Lessons, l)
		}

		if row.TaskID == "" {
			continue
		}
		l.Tasks = append(l.Tasks, Task{
			ID:       row.TaskID,
			Title:    row.Title,
			Scenario: row.Scenario,
			XP:       row.XP,
			Resources: Resources{
				PDFs:      splitURLList(row.PDFURLs),
				Forms:     splitURLList(row.TallyURLs),
				AnswerKey: row.AnswerKeyURL,
			},
			Instructions: unescapeNewlines(row.Instructions),
			LessonID:     row.LessonID,
			ChapterID:    row.ChapterID,
			CourseID:     row.CourseID,
		})
	}

	return courses
}

// OrganizeTopics maps topic rows to topics sorted by order. The sort is
// stable: rows sharing an order value keep their input order.
func OrganizeTopics(rows []TopicRow) []Topic {
	topics := make([]Topic, 0, len(rows))
	for _, row := range rows {
		if row.TopicID == "" || row.LessonID == "" {
			continue
		}
		topics = append(topics, Topic{
			ID:        row.TopicID,
			Title:     row.Title,
			VideoURL:  row.VideoURL,
			YouTubeID: YouTubeID(row.VideoURL),
			Order:     row.Order,
			LessonID:  row.LessonID,
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Order < topics[j].Order
	})
	return topics
}

// OrganizeQuiz maps quiz rows to questions. Options come from the single
// pipe-delimited options field when present, else from the four discrete
// option columns with blanks filtered. An unmatched correct-answer letter
// fails open to index 0; with strict set, the question is dropped instead.
// Duplicate question ids are reported but both rows stay in the output.
func OrganizeQuiz(rows []QuizRow, strict bool) []QuizQuestion {
	questions := make([]QuizQuestion, 0, len(rows))
	seen := make(map[string]bool)

	for _, row := range rows {
		if row.QuestionID == "" || row.LessonID == "" {
			continue
		}
		if seen[row.QuestionID] {
			slog.Warn("duplicate quiz question id", "question_id", row.QuestionID, "lesson_id", row.LessonID)
		}
		seen[row.QuestionID] = true

		options := splitOptions(row.Options)
		if len(options) == 0 {
			for _, o := range []string{row.OptionA, row.OptionB, row.OptionC, row.OptionD} {
				if o != "" {
					options = append(options, o)
				}
			}
		}

		idx, ok := letterIndex(row.CorrectOption)
		if !ok {
			if strict {
				slog.Warn("dropping quiz question with unparsable answer letter",
					"question_id", row.QuestionID, "correct_option", row.CorrectOption)
				continue
			}
			slog.Warn("quiz question has unparsable answer letter, defaulting to first option",
				"question_id", row.QuestionID, "correct_option", row.CorrectOption)
			idx = 0
		}

		questions = append(questions, QuizQuestion{
			ID:           row.QuestionID,
			Question:     row.Question,
			Options:      options,
			CorrectIndex: idx,
			LessonID:     row.LessonID,
			TopicID:      row.TopicID,
		})
	}
	return questions
}

// splitURLList splits a cell on comma, semicolon, or pipe and trims entries,
// filtering out empties.
func splitURLList(s string) []string {
	var urls []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

// splitOptions splits a pipe-delimited options cell, stripping "A)" / "A."
// style markers from each entry.
func splitOptions(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var options []string
	for _, part := range strings.Split(s, "|") {
		if part = stripOptionMarker(strings.TrimSpace(part)); part != "" {
			options = append(options, part)
		}
	}
	return options
}

func stripOptionMarker(s string) string {
	if len(s) >= 2 && s[0] >= 'A' && s[0] <= 'D' && (s[1] == ')' || s[1] == '.') {
		return strings.TrimSpace(s[2:])
	}
	return s
}

// letterIndex maps a correct-answer letter A-D to a 0-based option index.
func letterIndex(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'D' {
		return 0, false
	}
	return int(s[0] - 'A'), true
}

// unescapeNewlines converts the literal two-character sequence \n into a real
// line break. Spreadsheet cells cannot hold newlines the way the authors
// write them, so the feed carries them escaped.
func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// YouTubeID extracts the video id from watch, short-link, and embed URL
// forms. Returns "" when the URL is not a recognizable YouTube link.
func YouTubeID(videoURL string) string {
	if videoURL == "" {
		return ""
	}
	u, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id
		}
		if rest, ok := strings.CutPrefix(u.Path, "/embed/"); ok {
			return strings.Trim(rest, "/")
		}
	}
	return ""
}
