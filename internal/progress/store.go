package progress

import (
	"context"
	"sync"
)

// QuizResult is the recorded outcome of a lesson quiz.
type QuizResult struct {
	Score  int  `json:"score"` // 0-100
	Passed bool `json:"passed"`
}

// DurableStore holds completion markers that must survive across sessions.
type DurableStore interface {
	AddCompletedTask(ctx context.Context, userID, courseID, taskID string) error
	CompletedTasks(ctx context.Context, userID, courseID string) (IDSet, error)

	AddCompletedLesson(ctx context.Context, userID, courseID, lessonID string) error
	CompletedLessons(ctx context.Context, userID, courseID string) (IDSet, error)

	AddWatchedTopic(ctx context.Context, userID, lessonID, topicID string) error
	WatchedTopics(ctx context.Context, userID, lessonID string) (IDSet, error)

	SetQuizResult(ctx context.Context, userID, lessonID string, result QuizResult) error
	GetQuizResult(ctx context.Context, userID, lessonID string) (QuizResult, bool, error)

	SetLearningDone(ctx context.Context, userID, lessonID string) error
	LearningDone(ctx context.Context, userID, lessonID string) (bool, error)
}

// SessionStore holds short-lived markers: task completions recorded by older
// clients before the durable migration, and per-resource visit flags.
type SessionStore interface {
	AddCompletedTask(ctx context.Context, userID, courseID, taskID string) error
	CompletedTasks(ctx context.Context, userID, courseID string) (IDSet, error)

	MarkResourceVisited(ctx context.Context, userID, taskID, resourceURL string) error
	VisitedResources(ctx context.Context, userID, taskID string) (IDSet, error)
}

// Store is the single completion store call sites use; they never reason
// about which scope a marker lives in.
type Store interface {
	DurableStore
	MarkResourceVisited(ctx context.Context, userID, taskID, resourceURL string) error
	VisitedResources(ctx context.Context, userID, taskID string) (IDSet, error)
}

// MemoryStore is an in-memory Store for tests and single-process use. It
// satisfies both scope interfaces.
type MemoryStore struct {
	mu             sync.RWMutex
	completedTasks map[string]IDSet // userID+courseID
	lessons        map[string]IDSet // userID+courseID
	topics         map[string]IDSet // userID+lessonID
	quiz           map[string]QuizResult
	learning       map[string]bool
	visits         map[string]IDSet // userID+taskID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		completedTasks: make(map[string]IDSet),
		lessons:        make(map[string]IDSet),
		topics:         make(map[string]IDSet),
		quiz:           make(map[string]QuizResult),
		learning:       make(map[string]bool),
		visits:         make(map[string]IDSet),
	}
}

func scopeKey(parts ...string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += "\x00"
		}
		key += p
	}
	return key
}

func (s *MemoryStore) addTo(m map[string]IDSet, key, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := m[key]
	if !ok {
		set = NewIDSet()
		m[key] = set
	}
	set.Add(id)
}

func (s *MemoryStore) copyOf(m map[string]IDSet, key string) IDSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewIDSet().Union(m[key])
}

func (s *MemoryStore) AddCompletedTask(_ context.Context, userID, courseID, taskID string) error {
	s.addTo(s.completedTasks, scopeKey(userID, courseID), taskID)
	return nil
}

func (s *MemoryStore) CompletedTasks(_ context.Context, userID, courseID string) (IDSet, error) {
	return s.copyOf(s.completedTasks, scopeKey(userID, courseID)), nil
}

func (s *MemoryStore) AddCompletedLesson(_ context.Context, userID, courseID, lessonID string) error {
	s.addTo(s.lessons, scopeKey(userID, courseID), lessonID)
	return nil
}

func (s *MemoryStore) CompletedLessons(_ context.Context, userID, courseID string) (IDSet, error) {
	return s.copyOf(s.lessons, scopeKey(userID, courseID)), nil
}

func (s *MemoryStore) AddWatchedTopic(_ context.Context, userID, lessonID, topicID string) error {
	s.addTo(s.topics, scopeKey(userID, lessonID), topicID)
	return nil
}

func (s *MemoryStore) WatchedTopics(_ context.Context, userID, lessonID string) (IDSet, error) {
	return s.copyOf(s.topics, scopeKey(userID, lessonID)), nil
}

func (s *MemoryStore) SetQuizResult(_ context.Context, userID, lessonID string, result QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz[scopeKey(userID, lessonID)] = result
	return nil
}

func (s *MemoryStore) GetQuizResult(_ context.Context, userID, lessonID string) (QuizResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.quiz[scopeKey(userID, lessonID)]
	return r, ok, nil
}

func (s *MemoryStore) SetLearningDone(_ context.Context, userID, lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learning[scopeKey(userID, lessonID)] = true
	return nil
}

func (s *MemoryStore) LearningDone(_ context.Context, userID, lessonID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.learning[scopeKey(userID, lessonID)], nil
}

func (s *MemoryStore) MarkResourceVisited(_ context.Context, userID, taskID, resourceURL string) error {
	s.addTo(s.visits, scopeKey(userID, taskID), resourceURL)
	return nil
}

func (s *MemoryStore) VisitedResources(_ context.Context, userID, taskID string) (IDSet, error) {
	return s.copyOf(s.visits, scopeKey(userID, taskID)), nil
}
