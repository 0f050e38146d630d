package progress

import "github.com/studyloop/studyloop/internal/course"

// Shape classifies a lesson by its content so completeness uses exactly one
// rule per variant instead of nested conditionals at every call site.
type Shape int

const (
	// ShapeEmpty is a lesson with neither tasks nor learning content.
	ShapeEmpty Shape = iota
	// ShapeTasksOnly is a lesson with tasks and no learning content.
	ShapeTasksOnly
	// ShapeLearningOnly is a lesson with topics or a quiz and no tasks.
	ShapeLearningOnly
	// ShapeMixed is a lesson with both.
	ShapeMixed
)

func (s Shape) String() string {
	switch s {
	case ShapeTasksOnly:
		return "tasks-only"
	case ShapeLearningOnly:
		return "learning-only"
	case ShapeMixed:
		return "mixed"
	default:
		return "empty"
	}
}

// LessonShape derives the variant from what the lesson carries. Learning
// content means attached topics or quiz questions.
func LessonShape(taskCount, topicCount, questionCount int) Shape {
	hasTasks := taskCount > 0
	hasLearning := topicCount > 0 || questionCount > 0
	switch {
	case hasTasks && hasLearning:
		return ShapeMixed
	case hasTasks:
		return ShapeTasksOnly
	case hasLearning:
		return ShapeLearningOnly
	default:
		return ShapeEmpty
	}
}

// IsLessonComplete applies the per-shape completeness rule.
//
//   - tasks-only: every task id completed, and the task list is non-empty
//   - learning-only: the learning signal is set
//   - mixed: either path satisfies the lesson (OR, not AND)
//   - empty: never complete
//
// learningDone must already OR the two persisted signals (lesson completion
// marker and the learning-done flag); they are written at different times.
func IsLessonComplete(shape Shape, tasks []course.Task, completedTasks IDSet, learningDone bool) bool {
	switch shape {
	case ShapeTasksOnly:
		return allTasksDone(tasks, completedTasks)
	case ShapeLearningOnly:
		return learningDone
	case ShapeMixed:
		return allTasksDone(tasks, completedTasks) || learningDone
	default:
		return false
	}
}

// CombinedPercent is the display progress value. Mixed lessons average the
// task percentage with a binary learning percentage; learning-only lessons
// are 0 or 100; tasks-only lessons use the task percentage directly.
func CombinedPercent(shape Shape, stats Stats, learningDone bool) int {
	learnPct := 0
	if learningDone {
		learnPct = 100
	}
	switch shape {
	case ShapeTasksOnly:
		return stats.CompletionPercent
	case ShapeLearningOnly:
		return learnPct
	case ShapeMixed:
		return (stats.CompletionPercent + learnPct) / 2
	default:
		return 0
	}
}

func allTasksDone(tasks []course.Task, completed IDSet) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !completed.Has(t.ID) {
			return false
		}
	}
	return true
}
