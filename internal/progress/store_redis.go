package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultSessionTTL bounds how long session-scoped markers live. Resource
// visits and legacy session completions are rebuilt by the user working
// through content, so losing them after a long absence is acceptable.
const defaultSessionTTL = 24 * time.Hour

// RedisStore is the session-scoped completion scope backed by Redis sets.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a session store. A zero ttl uses the default.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) addMember(ctx context.Context, key, member string) error {
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, member)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session store write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) members(ctx context.Context, key string) (IDSet, error) {
	ids, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("session store read %s: %w", key, err)
	}
	return NewIDSet(ids...), nil
}

func (s *RedisStore) AddCompletedTask(ctx context.Context, userID, courseID, taskID string) error {
	return s.addMember(ctx, sessionTasksKey(userID, courseID), taskID)
}

func (s *RedisStore) CompletedTasks(ctx context.Context, userID, courseID string) (IDSet, error) {
	return s.members(ctx, sessionTasksKey(userID, courseID))
}

func (s *RedisStore) MarkResourceVisited(ctx context.Context, userID, taskID, resourceURL string) error {
	return s.addMember(ctx, sessionVisitsKey(userID, taskID), resourceURL)
}

func (s *RedisStore) VisitedResources(ctx context.Context, userID, taskID string) (IDSet, error) {
	return s.members(ctx, sessionVisitsKey(userID, taskID))
}

func sessionTasksKey(userID, courseID string) string {
	return "session:tasks:" + userID + ":" + courseID
}

func sessionVisitsKey(userID, taskID string) string {
	return "session:visits:" + userID + ":" + taskID
}
