package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is the durable completion scope backed by PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed durable store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) exec(ctx context.Context, sql string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("progress store write: %w", err)
	}
	return nil
}

func (s *PostgresStore) queryIDs(ctx context.Context, sql string, args ...any) (IDSet, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("progress store read: %w", err)
	}
	defer rows.Close()

	ids := NewIDSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("progress store scan: %w", err)
		}
		ids.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress store rows: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) AddCompletedTask(ctx context.Context, userID, courseID, taskID string) error {
	return s.exec(ctx,
		`INSERT INTO completed_tasks (user_id, course_id, task_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		userID, courseID, taskID)
}

func (s *PostgresStore) CompletedTasks(ctx context.Context, userID, courseID string) (IDSet, error) {
	return s.queryIDs(ctx,
		`SELECT task_id FROM completed_tasks WHERE user_id = $1 AND course_id = $2`,
		userID, courseID)
}

func (s *PostgresStore) AddCompletedLesson(ctx context.Context, userID, courseID, lessonID string) error {
	return s.exec(ctx,
		`INSERT INTO completed_lessons (user_id, course_id, lesson_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		userID, courseID, lessonID)
}

func (s *PostgresStore) CompletedLessons(ctx context.Context, userID, courseID string) (IDSet, error) {
	return s.queryIDs(ctx,
		`SELECT lesson_id FROM completed_lessons WHERE user_id = $1 AND course_id = $2`,
		userID, courseID)
}

func (s *PostgresStore) AddWatchedTopic(ctx context.Context, userID, lessonID, topicID string) error {
	return s.exec(ctx,
		`INSERT INTO watched_topics (user_id, lesson_id, topic_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		userID, lessonID, topicID)
}

func (s *PostgresStore) WatchedTopics(ctx context.Context, userID, lessonID string) (IDSet, error) {
	return s.queryIDs(ctx,
		`SELECT topic_id FROM watched_topics WHERE user_id = $1 AND lesson_id = $2`,
		userID, lessonID)
}

func (s *PostgresStore) SetQuizResult(ctx context.Context, userID, lessonID string, result QuizResult) error {
	return s.exec(ctx,
		`INSERT INTO quiz_results (user_id, lesson_id, score, passed, submitted_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id, lesson_id)
		 DO UPDATE SET score = EXCLUDED.score, passed = EXCLUDED.passed, submitted_at = NOW()`,
		userID, lessonID, result.Score, result.Passed)
}

func (s *PostgresStore) GetQuizResult(ctx context.Context, userID, lessonID string) (QuizResult, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var r QuizResult
	err := s.pool.QueryRow(ctx,
		`SELECT score, passed FROM quiz_results WHERE user_id = $1 AND lesson_id = $2`,
		userID, lessonID,
	).Scan(&r.Score, &r.Passed)
	if errors.Is(err, pgx.ErrNoRows) {
		return QuizResult{}, false, nil
	}
	if err != nil {
		return QuizResult{}, false, fmt.Errorf("quiz result read: %w", err)
	}
	return r, true, nil
}

func (s *PostgresStore) SetLearningDone(ctx context.Context, userID, lessonID string) error {
	return s.exec(ctx,
		`INSERT INTO learning_done (user_id, lesson_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, lessonID)
}

func (s *PostgresStore) LearningDone(ctx context.Context, userID, lessonID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var done bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM learning_done WHERE user_id = $1 AND lesson_id = $2)`,
		userID, lessonID,
	).Scan(&done)
	if err != nil {
		return false, fmt.Errorf("learning done read: %w", err)
	}
	return done, nil
}
