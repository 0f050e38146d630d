package course_test

import (
	"reflect"
	"testing"

	"github.com/studyloop/studyloop/internal/course"
)

func taskRow(courseID, chapterID, lessonID, taskID string) course.TaskRow {
	return course.TaskRow{
		CourseID:  courseID,
		ChapterID: chapterID,
		LessonID:  lessonID,
		TaskID:    taskID,
	}
}

func TestBuildCourses_Hierarchy(t *testing.T) {
	rows := []course.TaskRow{
		{CourseID: "c1", CourseName: "Go Basics", ChapterID: "ch1", ChapterName: "Intro",
			LessonID: "les_1_1", LessonName: "Hello", TaskID: "t1", Title: "First", XP: 10},
		{CourseID: "c1", CourseName: "ignored later name", ChapterID: "ch1",
			LessonID: "les_1_1", TaskID: "t2", Title: "Second", XP: 20},
		{CourseID: "c1", ChapterID: "ch1", LessonID: "les_1_2", TaskID: "t3"},
		{CourseID: "c1", ChapterID: "ch2", LessonID: "les_2_1", TaskID: "t4"},
		{CourseID: "c2", CourseName: "Other", ChapterID: "ch1", LessonID: "o_1_1", TaskID: "t5"},
	}

	courses := course.BuildCourses(rows)

	if len(courses) != 2 {
		t.Fatalf("len(courses) = %d, want 2", len(courses))
	}

	c1 := courses[0]
	if c1.ID != "c1" || c1.Name != "Go Basics" {
		t.Errorf("course = %q/%q, want c1/Go Basics (first-seen name wins)", c1.ID, c1.Name)
	}
	if len(c1.Chapters) != 2 {
		t.Fatalf("c1 chapters = %d, want 2", len(c1.Chapters))
	}
	if got := len(c1.Chapters[0].Lessons); got != 2 {
		t.Fatalf("ch1 lessons = %d, want 2", got)
	}
	if got := len(c1.Chapters[0].Lessons[0].Tasks); got != 2 {
		t.Errorf("les_1_1 tasks = %d, want 2", got)
	}

	// Same chapter id under a different course is a distinct chapter.
	c2 := courses[1]
	if c2.Chapters[0] == c1.Chapters[0] {
		t.Error("chapter ch1 must be scoped per course")
	}
	if c2.Chapters[0].CourseID != "c2" {
		t.Errorf("c2 chapter CourseID = %q, want c2", c2.Chapters[0].CourseID)
	}
}

func TestBuildCourses_Idempotent(t *testing.T) {
	rows := []course.TaskRow{
		taskRow("c1", "ch1", "l1", "t1"),
		taskRow("c1", "ch1", "l2", "t2"),
		taskRow("c1", "ch2", "l3", "t3"),
	}

	first := course.BuildCourses(rows)
	second := course.BuildCourses(rows)

	if !reflect.DeepEqual(first, second) {
		t.Error("building twice from the same rows must yield structurally equal trees")
	}
}

func TestBuildCourses_SkipsRowsWithoutScope(t *testing.T) {
	rows := []course.TaskRow{
		taskRow("", "ch1", "l1", "t1"),
		taskRow("c1", "", "l1", "t2"),
		taskRow("c1", "ch1", "", "t3"),
		taskRow("c1", "ch1", "l1", ""), // lesson created, no task added
	}

	courses := course.BuildCourses(rows)
	if len(courses) != 1 {
		t.Fatalf("len(courses) = %d, want 1", len(courses))
	}
	lesson := courses[0].Chapters[0].Lessons[0]
	if len(lesson.Tasks) != 0 {
		t.Errorf("lesson tasks = %d, want 0", len(lesson.Tasks))
	}
}

func TestBuildCourses_TaskFields(t *testing.T) {
	rows := []course.TaskRow{{
		CourseID: "c1", ChapterID: "ch1", LessonID: "l1", TaskID: "t1",
		XP:           15,
		PDFURLs:      "https://a.pdf, https://b.pdf;https://c.pdf| https://d.pdf ,",
		TallyURLs:    "https://tally.so/r/1",
		AnswerKeyURL: "https://keys/1",
		Instructions: `Step one\nStep two`,
	}}

	task := course.BuildCourses(rows)[0].Chapters[0].Lessons[0].Tasks[0]

	wantPDFs := []string{"https://a.pdf", "https://b.pdf", "https://c.pdf", "https://d.pdf"}
	if !reflect.DeepEqual(task.Resources.PDFs, wantPDFs) {
		t.Errorf("PDFs = %#v, want %#v", task.Resources.PDFs, wantPDFs)
	}
	if len(task.Resources.Forms) != 1 {
		t.Errorf("Forms = %#v, want one entry", task.Resources.Forms)
	}
	if task.Instructions != "Step one\nStep two" {
		t.Errorf("Instructions = %q, literal \\n must become a line break", task.Instructions)
	}
	if task.XP != 15 {
		t.Errorf("XP = %d, want 15", task.XP)
	}
}

func TestOrganizeTopics_StableSort(t *testing.T) {
	rows := []course.TopicRow{
		{TopicID: "b", LessonID: "l1", Order: 2},
		{TopicID: "a", LessonID: "l1", Order: 1},
		{TopicID: "tie-first", LessonID: "l1", Order: 1},
		{TopicID: "", LessonID: "l1", Order: 0}, // no id, skipped
	}

	topics := course.OrganizeTopics(rows)

	got := make([]string, len(topics))
	for i, tp := range topics {
		got[i] = tp.ID
	}
	want := []string{"a", "tie-first", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topic order = %v, want %v (stable sort, ties keep input order)", got, want)
	}
}

func TestOrganizeTopics_YouTubeID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://vimeo.com/12345", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := course.YouTubeID(tt.url); got != tt.want {
			t.Errorf("YouTubeID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestOrganizeQuiz_PipeOptions(t *testing.T) {
	rows := []course.QuizRow{{
		QuestionID:    "q1",
		LessonID:      "l1",
		Question:      "Pick one",
		Options:       "A) first|B. second|C) third",
		OptionA:       "should not be used",
		CorrectOption: "b",
	}}

	questions := course.OrganizeQuiz(rows, false)
	if len(questions) != 1 {
		t.Fatalf("len(questions) = %d, want 1", len(questions))
	}

	q := questions[0]
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(q.Options, want) {
		t.Errorf("Options = %#v, want %#v (markers stripped)", q.Options, want)
	}
	if q.CorrectIndex != 1 {
		t.Errorf("CorrectIndex = %d, want 1", q.CorrectIndex)
	}
}

func TestOrganizeQuiz_ColumnFallback(t *testing.T) {
	rows := []course.QuizRow{{
		QuestionID:    "q1",
		LessonID:      "l1",
		OptionA:       "alpha",
		OptionB:       "beta",
		OptionD:       "delta", // C blank, filtered
		CorrectOption: "A",
	}}

	q := course.OrganizeQuiz(rows, false)[0]
	want := []string{"alpha", "beta", "delta"}
	if !reflect.DeepEqual(q.Options, want) {
		t.Errorf("Options = %#v, want %#v", q.Options, want)
	}
}

func TestOrganizeQuiz_BadLetter(t *testing.T) {
	rows := []course.QuizRow{{
		QuestionID: "q1", LessonID: "l1", OptionA: "a", OptionB: "b", CorrectOption: "X",
	}}

	// Fail-open default: index 0.
	lax := course.OrganizeQuiz(rows, false)
	if len(lax) != 1 || lax[0].CorrectIndex != 0 {
		t.Errorf("lax mode: got %+v, want one question with CorrectIndex 0", lax)
	}

	// Strict mode: question dropped.
	if strict := course.OrganizeQuiz(rows, true); len(strict) != 0 {
		t.Errorf("strict mode: got %d questions, want 0", len(strict))
	}
}

func TestOrganizeQuiz_DuplicateIDsKept(t *testing.T) {
	rows := []course.QuizRow{
		{QuestionID: "q1", LessonID: "l1", OptionA: "a", CorrectOption: "A"},
		{QuestionID: "q1", LessonID: "l1", OptionA: "b", CorrectOption: "A"},
	}

	questions := course.OrganizeQuiz(rows, false)
	if len(questions) != 2 {
		t.Errorf("len(questions) = %d, want 2 (duplicates are warned about, not dropped)", len(questions))
	}
}
