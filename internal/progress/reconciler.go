package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyloop/studyloop/internal/course"
)

// LessonState is the derived view of one lesson for one user.
type LessonState struct {
	LessonID        string `json:"lessonId"`
	Shape           string `json:"shape"`
	Stats           Stats  `json:"stats"`
	LearningDone    bool   `json:"learningDone"`
	Complete        bool   `json:"complete"`
	CombinedPercent int    `json:"combinedPercent"`
}

// Reconciler combines task-completion, topic-watch, and quiz-pass signals
// into lesson completeness, and runs the write-side flows that record them.
// All writes are synchronous: a marker is durably recorded before the call
// returns, so dependent reads in the same call stack observe it.
type Reconciler struct {
	store         Store
	passThreshold int
}

// NewReconciler creates a reconciler. passThreshold is the quiz score (0-100)
// required to pass.
func NewReconciler(store Store, passThreshold int) *Reconciler {
	return &Reconciler{store: store, passThreshold: passThreshold}
}

// LessonState derives the completion view for a lesson given its attached
// topic and question counts.
func (r *Reconciler) LessonState(ctx context.Context, userID string, lesson *course.Lesson, topicCount, questionCount int) (LessonState, error) {
	completedTasks, err := r.store.CompletedTasks(ctx, userID, lesson.CourseID)
	if err != nil {
		return LessonState{}, err
	}
	learningDone, err := r.learningDone(ctx, userID, lesson)
	if err != nil {
		return LessonState{}, err
	}

	shape := LessonShape(len(lesson.Tasks), topicCount, questionCount)
	stats := Calculate(lesson.Tasks, completedTasks)

	return LessonState{
		LessonID:        lesson.ID,
		Shape:           shape.String(),
		Stats:           stats,
		LearningDone:    learningDone,
		Complete:        IsLessonComplete(shape, lesson.Tasks, completedTasks, learningDone),
		CombinedPercent: CombinedPercent(shape, stats, learningDone),
	}, nil
}

// learningDone ORs the two persisted learning signals: the lesson completion
// marker (written when every topic is watched) and the learning-done flag
// (written when the quiz is passed).
func (r *Reconciler) learningDone(ctx context.Context, userID string, lesson *course.Lesson) (bool, error) {
	completedLessons, err := r.store.CompletedLessons(ctx, userID, lesson.CourseID)
	if err != nil {
		return false, err
	}
	if completedLessons.Has(lesson.ID) {
		return true, nil
	}
	return r.store.LearningDone(ctx, userID, lesson.ID)
}

// TopicWatched records a watched topic. Once every topic of the lesson is
// watched, the lesson completion marker is written.
func (r *Reconciler) TopicWatched(ctx context.Context, userID string, lesson *course.Lesson, topicID string, topics []course.Topic) error {
	if err := r.store.AddWatchedTopic(ctx, userID, lesson.ID, topicID); err != nil {
		return err
	}

	watched, err := r.store.WatchedTopics(ctx, userID, lesson.ID)
	if err != nil {
		return err
	}
	for _, t := range topics {
		if !watched.Has(t.ID) {
			return nil
		}
	}

	slog.Info("all topics watched, marking lesson complete",
		"user_id", userID, "lesson_id", lesson.ID)
	return r.store.AddCompletedLesson(ctx, userID, lesson.CourseID, lesson.ID)
}

// QuizSubmitted records a quiz score and, when it meets the pass threshold,
// sets the learning-done flag.
func (r *Reconciler) QuizSubmitted(ctx context.Context, userID, lessonID string, score int) (QuizResult, error) {
	if score < 0 || score > 100 {
		return QuizResult{}, fmt.Errorf("quiz score must be 0-100, got %d", score)
	}

	result := QuizResult{Score: score, Passed: score >= r.passThreshold}
	if err := r.store.SetQuizResult(ctx, userID, lessonID, result); err != nil {
		return QuizResult{}, err
	}
	if result.Passed {
		if err := r.store.SetLearningDone(ctx, userID, lessonID); err != nil {
			return QuizResult{}, err
		}
	}
	return result, nil
}

// ResourceVisited flags one task resource as visited. Once every required
// resource of the task is visited, the task is marked complete.
func (r *Reconciler) ResourceVisited(ctx context.Context, userID string, task course.Task, resourceURL string) (bool, error) {
	if err := r.store.MarkResourceVisited(ctx, userID, task.ID, resourceURL); err != nil {
		return false, err
	}

	visited, err := r.store.VisitedResources(ctx, userID, task.ID)
	if err != nil {
		return false, err
	}
	for _, u := range requiredResources(task) {
		if !visited.Has(u) {
			return false, nil
		}
	}

	if err := r.store.AddCompletedTask(ctx, userID, task.CourseID, task.ID); err != nil {
		return false, err
	}
	slog.Info("all task resources visited, task complete",
		"user_id", userID, "task_id", task.ID)
	return true, nil
}

// TaskCompleted records an explicit task completion.
func (r *Reconciler) TaskCompleted(ctx context.Context, userID string, task course.Task) error {
	return r.store.AddCompletedTask(ctx, userID, task.CourseID, task.ID)
}

// CourseStats computes progress over every task in a course.
func (r *Reconciler) CourseStats(ctx context.Context, userID string, c *course.Course) (Stats, error) {
	completed, err := r.store.CompletedTasks(ctx, userID, c.ID)
	if err != nil {
		return Stats{}, err
	}

	var tasks []course.Task
	for _, ch := range c.Chapters {
		for _, l := range ch.Lessons {
			tasks = append(tasks, l.Tasks...)
		}
	}
	return Calculate(tasks, completed), nil
}

func requiredResources(task course.Task) []string {
	var urls []string
	urls = append(urls, task.Resources.PDFs...)
	urls = append(urls, task.Resources.Forms...)
	if task.Resources.AnswerKey != "" {
		urls = append(urls, task.Resources.AnswerKey)
	}
	return urls
}
