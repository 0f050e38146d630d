package course_test

import (
	"testing"

	"github.com/studyloop/studyloop/internal/course"
)

func testCatalog() *course.Catalog {
	courses := course.BuildCourses([]course.TaskRow{
		{CourseID: "c1", ChapterID: "ch1", LessonID: "l1", TaskID: "t1", XP: 10},
		{CourseID: "c1", ChapterID: "ch1", LessonID: "l2", TaskID: "t2", XP: 20},
		{CourseID: "c1", ChapterID: "ch2", LessonID: "l3", TaskID: "t3", XP: 30},
	})
	return &course.Catalog{
		Courses: courses,
		Topics: course.OrganizeTopics([]course.TopicRow{
			{TopicID: "tp1", LessonID: "l1", Order: 1},
			{TopicID: "tp2", LessonID: "l2", Order: 1},
		}),
		Questions: course.OrganizeQuiz([]course.QuizRow{
			{QuestionID: "q1", LessonID: "l1", OptionA: "x", CorrectOption: "A"},
		}, false),
	}
}

func TestCatalog_Lookups(t *testing.T) {
	cat := testCatalog()

	if _, ok := cat.Course("c1"); !ok {
		t.Error("Course(c1) not found")
	}
	if _, ok := cat.Course("nope"); ok {
		t.Error("Course(nope) should not be found")
	}

	lesson, ok := cat.Lesson("c1", "ch1", "l2")
	if !ok || lesson.ID != "l2" {
		t.Errorf("Lesson(c1,ch1,l2) = %v, %v", lesson, ok)
	}
	if _, ok := cat.Lesson("c1", "ch2", "l2"); ok {
		t.Error("Lesson lookup must be scoped by chapter")
	}

	if l, ok := cat.LessonByID("l3"); !ok || l.ChapterID != "ch2" {
		t.Errorf("LessonByID(l3) = %v, %v", l, ok)
	}
	if _, ok := cat.LessonByID("missing"); ok {
		t.Error("LessonByID(missing) should not be found")
	}

	task, ok := cat.Task("t3")
	if !ok || task.XP != 30 {
		t.Errorf("Task(t3) = %v, %v", task, ok)
	}
	if _, ok := cat.Task("missing"); ok {
		t.Error("Task(missing) should not be found")
	}
}

func TestCatalog_PerLessonScans(t *testing.T) {
	cat := testCatalog()

	if got := cat.TopicsForLesson("l1"); len(got) != 1 || got[0].ID != "tp1" {
		t.Errorf("TopicsForLesson(l1) = %v", got)
	}
	if got := cat.TopicsForLesson("l3"); len(got) != 0 {
		t.Errorf("TopicsForLesson(l3) = %v, want none", got)
	}
	if got := cat.QuestionsForLesson("l1"); len(got) != 1 {
		t.Errorf("QuestionsForLesson(l1) = %v", got)
	}
}
