package progress_test

import (
	"testing"

	"github.com/studyloop/studyloop/internal/course"
	"github.com/studyloop/studyloop/internal/progress"
)

func testLesson() *course.Lesson {
	return &course.Lesson{
		ID:        "l1",
		CourseID:  "c1",
		ChapterID: "ch1",
		Tasks: []course.Task{
			{ID: "t1", XP: 10, CourseID: "c1", LessonID: "l1"},
			{ID: "t2", XP: 20, CourseID: "c1", LessonID: "l1"},
		},
	}
}

func TestReconciler_LessonState_TaskPath(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewReconciler(store, 80)
	lesson := testLesson()
	ctx := t.Context()

	st, err := r.LessonState(ctx, "u1", lesson, 0, 0)
	if err != nil {
		t.Fatalf("LessonState() error = %v", err)
	}
	if st.Shape != "tasks-only" || st.Complete {
		t.Errorf("fresh lesson state = %+v", st)
	}

	store.AddCompletedTask(ctx, "u1", "c1", "t1")
	store.AddCompletedTask(ctx, "u1", "c1", "t2")

	st, err = r.LessonState(ctx, "u1", lesson, 0, 0)
	if err != nil {
		t.Fatalf("LessonState() error = %v", err)
	}
	if !st.Complete || st.CombinedPercent != 100 {
		t.Errorf("all tasks done: state = %+v", st)
	}
}

func TestReconciler_LessonState_MixedLearningPath(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewReconciler(store, 80)
	lesson := testLesson()
	ctx := t.Context()

	// Lesson has topics, so it is mixed; learning-done alone completes it.
	store.SetLearningDone(ctx, "u1", "l1")

	st, err := r.LessonState(ctx, "u1", lesson, 2, 0)
	if err != nil {
		t.Fatalf("LessonState() error = %v", err)
	}
	if st.Shape != "mixed" {
		t.Errorf("Shape = %q, want mixed", st.Shape)
	}
	if !st.Complete {
		t.Error("mixed lesson with learning done must be complete despite 0 tasks done")
	}
	if st.CombinedPercent != 50 {
		t.Errorf("CombinedPercent = %d, want 50 (0%% tasks, 100%% learning)", st.CombinedPercent)
	}
}

func TestReconciler_LessonState_CompletedLessonMarker(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewReconciler(store, 80)
	lesson := &course.Lesson{ID: "l1", CourseID: "c1"}
	ctx := t.Context()

	// The completion marker and the learning-done flag are independent
	// signals; either must satisfy the learning path.
	store.AddCompletedLesson(ctx, "u1", "c1", "l1")

	st, err := r.LessonState(ctx, "u1", lesson, 1, 0)
	if err != nil {
		t.Fatalf("LessonState() error = %v", err)
	}
	if !st.LearningDone || !st.Complete {
		t.Errorf("state = %+v, want learning done via lesson marker", st)
	}
}

func TestReconciler_TopicWatched(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewReconciler(store, 80)
	lesson := &course.Lesson{ID: "l1", CourseID: "c1"}
	topics := []course.Topic{
		{ID: "tp1", LessonID: "l1"},
		{ID: "tp2", LessonID: "l1"},
	}
	ctx := t.Context()

	if err := r.TopicWatched(ctx, "u1", lesson, "tp1", topics); err != nil {
		t.Fatalf("TopicWatched() error = %v", err)
	}
	lessons, _ := store.CompletedLessons(ctx, "u1", "c1")
	if lessons.Has("l1") {
		t.Error("lesson must not be marked complete with topics still unwatched")
	}

	if err := r.TopicWatched(ctx, "u1", lesson, "tp2", topics); err != nil {
		t.Fatalf("TopicWatched() error = %v", err)
	}
	lessons, _ = store.CompletedLessons(ctx, "u1", "c1")
	if !lessons.Has("l1") {
		t.Error("watching the last topic must write the lesson completion marker")
	}
}

func TestReconciler_QuizSubmitted(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewReconciler(store, 80)
	ctx := t.Context()

	res, err := r.QuizSubmitted(ctx, "u1", "l1", 75)
	if err != nil {
		t.Fatalf("QuizSubmitted() error = %v", err)
	}
	if res.Passed {
		t.Error("75 must not pass at threshold 80")
	}
	if done, _ := store.LearningDone(ctx, "u1", "l1"); done {
		t.Error("failed quiz must not set learning done")
	}

	res, err = r.QuizSubmitted(ctx, "u1", "l1", 80)
	if err != nil {
		t.Fatalf("QuizSubmitted() error = %v", err)
	}
	if !res.Passed {
		t.Error("80 must pass at threshold 80")
	}
	if done, _ := store.LearningDone(ctx, "u1", "l1"); !done {
		t.Error("passed quiz must set learning done")
	}

	if _, err := r.QuizSubmitted(ctx, "u1", "l1", 101); err == nil {
		t.Error("QuizSubmitted() should reject out-of-range scores")
	}
	if _, err := r.QuizSubmitted(ctx, "u1", "l1", -1); err == nil {
		t.Error("QuizSubmitted() should reject negative scores")
	}
}

func TestReconciler_ResourceVisited(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewReconciler(store, 80)
	task := course.Task{
		ID:       "t1",
		CourseID: "c1",
		LessonID: "l1",
		Resources: course.Resources{
			PDFs:      []string{"https://a.pdf"},
			Forms:     []string{"https://tally.so/r/1"},
			AnswerKey: "https://keys/1",
		},
	}
	ctx := t.Context()

	done, err := r.ResourceVisited(ctx, "u1", task, "https://a.pdf")
	if err != nil {
		t.Fatalf("ResourceVisited() error = %v", err)
	}
	if done {
		t.Error("task must not complete with resources still unvisited")
	}

	r.ResourceVisited(ctx, "u1", task, "https://tally.so/r/1")
	done, err = r.ResourceVisited(ctx, "u1", task, "https://keys/1")
	if err != nil {
		t.Fatalf("ResourceVisited() error = %v", err)
	}
	if !done {
		t.Error("visiting the last required resource must complete the task")
	}

	completed, _ := store.CompletedTasks(ctx, "u1", "c1")
	if !completed.Has("t1") {
		t.Error("completed task must be recorded before the call returns")
	}
}

func TestReconciler_CourseStats(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewReconciler(store, 80)
	ctx := t.Context()

	c := &course.Course{
		ID: "c1",
		Chapters: []*course.Chapter{{
			ID: "ch1", CourseID: "c1",
			Lessons: []*course.Lesson{
				{ID: "l1", Tasks: []course.Task{{ID: "t1", XP: 10}}},
				{ID: "l2", Tasks: []course.Task{{ID: "t2", XP: 30}}},
			},
		}},
	}

	store.AddCompletedTask(ctx, "u1", "c1", "t2")

	st, err := r.CourseStats(ctx, "u1", c)
	if err != nil {
		t.Fatalf("CourseStats() error = %v", err)
	}
	if st.TotalTasks != 2 || st.CompletedTasks != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.EarnedXP != 30 || st.TotalXP != 40 {
		t.Errorf("xp = %d/%d, want 30/40", st.EarnedXP, st.TotalXP)
	}
}
