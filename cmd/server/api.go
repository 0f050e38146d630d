package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/studyloop/studyloop/internal/course"
	"github.com/studyloop/studyloop/internal/feed"
	"github.com/studyloop/studyloop/internal/notify"
	"github.com/studyloop/studyloop/internal/progress"
	"github.com/studyloop/studyloop/internal/schedule"
)

// catalogLoader is what the API needs from the course loader.
type catalogLoader interface {
	Load(ctx context.Context) (*course.Catalog, error)
}

// healthChecker is implemented by the database and cache wrappers.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// server bundles the derived-state engine behind the HTTP surface.
type server struct {
	loader      catalogLoader
	reconciler  *progress.Reconciler
	schedule    *schedule.Schedule
	broadcaster *notify.Broadcaster
	checks      []healthChecker
}

func newMux(s *server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /api/courses", s.handleCourses)
	mux.HandleFunc("GET /api/courses/{courseID}", s.handleCourse)
	mux.HandleFunc("GET /api/courses/{courseID}/progress", s.handleCourseProgress)
	mux.HandleFunc("GET /api/lessons/{lessonID}/state", s.handleLessonState)

	mux.HandleFunc("POST /api/users/{userID}/tasks/{taskID}/complete", s.handleTaskComplete)
	mux.HandleFunc("POST /api/users/{userID}/tasks/{taskID}/resources/visited", s.handleResourceVisited)
	mux.HandleFunc("POST /api/users/{userID}/lessons/{lessonID}/topics/{topicID}/watched", s.handleTopicWatched)
	mux.HandleFunc("POST /api/users/{userID}/lessons/{lessonID}/quiz", s.handleQuizSubmit)

	mux.Handle("GET /ws/progress", notify.ProgressHandler(s.broadcaster))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// catalog loads the tree for a request, mapping feed failures to the right
// status for the caller to surface a retry.
func (s *server) catalog(w http.ResponseWriter, r *http.Request) (*course.Catalog, bool) {
	cat, err := s.loader.Load(r.Context())
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		var statusErr *feed.StatusError
		if errors.As(err, &statusErr) {
			writeError(w, http.StatusBadGateway, "course feed unavailable")
		} else {
			writeError(w, http.StatusInternalServerError, "could not load courses")
		}
		return nil, false
	}
	return cat, true
}

func userParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user query parameter is required")
		return "", false
	}
	return user, true
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	for _, c := range s.checks {
		if err := c.HealthCheck(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "dependency unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *server) handleCourses(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *server) handleCourse(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	c, ok := cat.Course(r.PathValue("courseID"))
	if !ok {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := userParam(w, r)
	if !ok {
		return
	}
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	c, ok := cat.Course(r.PathValue("courseID"))
	if !ok {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	stats, err := s.reconciler.CourseStats(r.Context(), user, c)
	if err != nil {
		slog.Error("course stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not compute progress")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// lessonStateResponse joins completion state with unlock state.
type lessonStateResponse struct {
	progress.LessonState
	Unlocked        bool   `json:"unlocked"`
	UnlockDate      string `json:"unlockDate,omitempty"`
	DaysUntilUnlock int    `json:"daysUntilUnlock"`
}

func (s *server) handleLessonState(w http.ResponseWriter, r *http.Request) {
	user, ok := userParam(w, r)
	if !ok {
		return
	}
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}

	lessonID := r.PathValue("lessonID")
	lesson, ok := cat.LessonByID(lessonID)
	if !ok {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}

	topics := cat.TopicsForLesson(lessonID)
	questions := cat.QuestionsForLesson(lessonID)

	state, err := s.reconciler.LessonState(r.Context(), user, lesson, len(topics), len(questions))
	if err != nil {
		slog.Error("lesson state failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not compute lesson state")
		return
	}

	now := time.Now()
	resp := lessonStateResponse{
		LessonState:     state,
		Unlocked:        s.schedule.IsLessonUnlocked(lessonID, now),
		DaysUntilUnlock: s.schedule.DaysUntilUnlock(lessonID, now),
	}
	if d, ok := s.schedule.UnlockDate(lessonID); ok {
		resp.UnlockDate = d.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	task, ok := cat.Task(r.PathValue("taskID"))
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	if err := s.reconciler.TaskCompleted(r.Context(), r.PathValue("userID"), task); err != nil {
		slog.Error("task completion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not record completion")
		return
	}
	s.broadcaster.Publish()
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *server) handleResourceVisited(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	task, ok := cat.Task(r.PathValue("taskID"))
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	taskDone, err := s.reconciler.ResourceVisited(r.Context(), r.PathValue("userID"), task, body.URL)
	if err != nil {
		slog.Error("resource visit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not record visit")
		return
	}
	s.broadcaster.Publish()
	writeJSON(w, http.StatusOK, map[string]bool{"taskComplete": taskDone})
}

func (s *server) handleTopicWatched(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}

	lessonID := r.PathValue("lessonID")
	lesson, ok := cat.LessonByID(lessonID)
	if !ok {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}

	topicID := r.PathValue("topicID")
	topics := cat.TopicsForLesson(lessonID)
	found := false
	for _, t := range topics {
		if t.ID == topicID {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "topic not found")
		return
	}

	if err := s.reconciler.TopicWatched(r.Context(), r.PathValue("userID"), lesson, topicID, topics); err != nil {
		slog.Error("topic watch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not record watch")
		return
	}
	s.broadcaster.Publish()
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Score int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "score is required")
		return
	}

	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	if _, ok := cat.LessonByID(r.PathValue("lessonID")); !ok {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}

	result, err := s.reconciler.QuizSubmitted(r.Context(), r.PathValue("userID"), r.PathValue("lessonID"), body.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.broadcaster.Publish()
	writeJSON(w, http.StatusOK, result)
}
