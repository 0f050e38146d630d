// Package course builds the Course→Chapter→Lesson→Task hierarchy, plus the
// parallel topic and quiz structures, from flat spreadsheet rows.
package course

// Resources groups the external material attached to a task.
type Resources struct {
	PDFs      []string `json:"pdfs"`
	Forms     []string `json:"forms"`
	AnswerKey string   `json:"answerKey,omitempty"`
}

// Task is a single assignment within a lesson. Immutable after build.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Scenario     string    `json:"scenario,omitempty"`
	XP           int       `json:"xp"`
	Resources    Resources `json:"resources"`
	Instructions string    `json:"instructions,omitempty"`
	LessonID     string    `json:"lessonId"`
	ChapterID    string    `json:"chapterId"`
	CourseID     string    `json:"courseId"`
}

// Lesson holds the tasks of one lesson in first-seen order.
type Lesson struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChapterID string `json:"chapterId"`
	CourseID  string `json:"courseId"`
	Tasks     []Task `json:"tasks"`
}

// Chapter holds the lessons of one chapter in first-seen order.
type Chapter struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	CourseID string    `json:"courseId"`
	Lessons  []*Lesson `json:"lessons"`
}

// Course is the root of the content hierarchy.
type Course struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Chapters []*Chapter `json:"chapters"`
}

// Topic is a video/content unit keyed by lesson, independent of the task tree.
type Topic struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	VideoURL  string `json:"videoUrl,omitempty"`
	YouTubeID string `json:"youtubeId,omitempty"`
	Order     int    `json:"order"`
	LessonID  string `json:"lessonId"`
}

// QuizQuestion is one multiple-choice question attached to a lesson.
type QuizQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	LessonID     string   `json:"lessonId"`
	TopicID      string   `json:"topicId,omitempty"`
}
