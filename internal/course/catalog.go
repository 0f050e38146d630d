package course

// Catalog bundles the built hierarchy with the parallel topic and quiz
// structures. It is rebuilt wholesale on every load and never mutated after
// construction.
type Catalog struct {
	Courses   []*Course      `json:"courses"`
	Topics    []Topic        `json:"topics"`
	Questions []QuizQuestion `json:"questions"`
}

// Course looks up a course by id.
func (c *Catalog) Course(id string) (*Course, bool) {
	for _, course := range c.Courses {
		if course.ID == id {
			return course, true
		}
	}
	return nil, false
}

// Lesson looks up a lesson by its full (courseId, chapterId, lessonId) scope.
func (c *Catalog) Lesson(courseID, chapterID, lessonID string) (*Lesson, bool) {
	course, ok := c.Course(courseID)
	if !ok {
		return nil, false
	}
	for _, ch := range course.Chapters {
		if ch.ID != chapterID {
			continue
		}
		for _, l := range ch.Lessons {
			if l.ID == lessonID {
				return l, true
			}
		}
	}
	return nil, false
}

// LessonByID scans all courses for a lesson id. Lesson ids are globally
// unique in practice; the first match wins if that assumption breaks.
func (c *Catalog) LessonByID(lessonID string) (*Lesson, bool) {
	for _, course := range c.Courses {
		for _, ch := range course.Chapters {
			for _, l := range ch.Lessons {
				if l.ID == lessonID {
					return l, true
				}
			}
		}
	}
	return nil, false
}

// Task scans all courses for a task id.
func (c *Catalog) Task(taskID string) (Task, bool) {
	for _, course := range c.Courses {
		for _, ch := range course.Chapters {
			for _, l := range ch.Lessons {
				for _, t := range l.Tasks {
					if t.ID == taskID {
						return t, true
					}
				}
			}
		}
	}
	return Task{}, false
}

// TopicsForLesson returns the topics attached to a lesson, already in order.
// Per-lesson cardinality is small, so a linear scan is fine.
func (c *Catalog) TopicsForLesson(lessonID string) []Topic {
	var topics []Topic
	for _, t := range c.Topics {
		if t.LessonID == lessonID {
			topics = append(topics, t)
		}
	}
	return topics
}

// QuestionsForLesson returns the quiz questions attached to a lesson.
func (c *Catalog) QuestionsForLesson(lessonID string) []QuizQuestion {
	var questions []QuizQuestion
	for _, q := range c.Questions {
		if q.LessonID == lessonID {
			questions = append(questions, q)
		}
	}
	return questions
}
