package progress

import "context"

// UnionStore merges a durable scope and a session scope behind the Store
// interface. Completed-task reads are the union of both scopes, for backward
// compatibility with clients that recorded completions in session storage
// before the durable migration. New writes always go durable; resource-visit
// flags are session-only by design.
type UnionStore struct {
	durable DurableStore
	session SessionStore
}

// NewUnionStore combines the two scopes.
func NewUnionStore(durable DurableStore, session SessionStore) *UnionStore {
	return &UnionStore{durable: durable, session: session}
}

func (s *UnionStore) AddCompletedTask(ctx context.Context, userID, courseID, taskID string) error {
	return s.durable.AddCompletedTask(ctx, userID, courseID, taskID)
}

func (s *UnionStore) CompletedTasks(ctx context.Context, userID, courseID string) (IDSet, error) {
	durable, err := s.durable.CompletedTasks(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	session, err := s.session.CompletedTasks(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return durable.Union(session), nil
}

func (s *UnionStore) AddCompletedLesson(ctx context.Context, userID, courseID, lessonID string) error {
	return s.durable.AddCompletedLesson(ctx, userID, courseID, lessonID)
}

func (s *UnionStore) CompletedLessons(ctx context.Context, userID, courseID string) (IDSet, error) {
	return s.durable.CompletedLessons(ctx, userID, courseID)
}

func (s *UnionStore) AddWatchedTopic(ctx context.Context, userID, lessonID, topicID string) error {
	return s.durable.AddWatchedTopic(ctx, userID, lessonID, topicID)
}

func (s *UnionStore) WatchedTopics(ctx context.Context, userID, lessonID string) (IDSet, error) {
	return s.durable.WatchedTopics(ctx, userID, lessonID)
}

func (s *UnionStore) SetQuizResult(ctx context.Context, userID, lessonID string, result QuizResult) error {
	return s.durable.SetQuizResult(ctx, userID, lessonID, result)
}

func (s *UnionStore) GetQuizResult(ctx context.Context, userID, lessonID string) (QuizResult, bool, error) {
	return s.durable.GetQuizResult(ctx, userID, lessonID)
}

func (s *UnionStore) SetLearningDone(ctx context.Context, userID, lessonID string) error {
	return s.durable.SetLearningDone(ctx, userID, lessonID)
}

func (s *UnionStore) LearningDone(ctx context.Context, userID, lessonID string) (bool, error) {
	return s.durable.LearningDone(ctx, userID, lessonID)
}

func (s *UnionStore) MarkResourceVisited(ctx context.Context, userID, taskID, resourceURL string) error {
	return s.session.MarkResourceVisited(ctx, userID, taskID, resourceURL)
}

func (s *UnionStore) VisitedResources(ctx context.Context, userID, taskID string) (IDSet, error) {
	return s.session.VisitedResources(ctx, userID, taskID)
}
