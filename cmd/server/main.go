package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyloop/studyloop/internal/course"
	"github.com/studyloop/studyloop/internal/feed"
	"github.com/studyloop/studyloop/internal/notify"
	"github.com/studyloop/studyloop/internal/platform/cache"
	"github.com/studyloop/studyloop/internal/platform/config"
	"github.com/studyloop/studyloop/internal/platform/database"
	"github.com/studyloop/studyloop/internal/progress"
	"github.com/studyloop/studyloop/internal/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	redisCache, err := cache.New(ctx, cfg.Cache.URL)
	if err != nil {
		slog.Error("failed to connect to cache", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	srv, err := buildServer(cfg, db, redisCache)
	if err != nil {
		slog.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      newMux(srv),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func buildServer(cfg *config.Config, db *database.DB, redisCache *cache.Cache) (*server, error) {
	sources, err := loadSources(cfg.Feed)
	if err != nil {
		return nil, err
	}

	fetcher := feed.NewFetcher(redisCache, cfg.Feed.CacheTTL)
	loader := course.NewLoader(fetcher, sources, cfg.Feed.StrictQuizAnswers)

	durable, err := progress.NewPostgresStore(db.Pool)
	if err != nil {
		return nil, err
	}
	session, err := progress.NewRedisStore(redisCache.Client, 0)
	if err != nil {
		return nil, err
	}
	store := progress.NewUnionStore(durable, session)

	sched, err := buildSchedule(cfg.Course)
	if err != nil {
		return nil, err
	}

	return &server{
		loader:      loader,
		reconciler:  progress.NewReconciler(store, cfg.Course.QuizPassThreshold),
		schedule:    sched,
		broadcaster: notify.NewBroadcaster(),
		checks:      []healthChecker{db, redisCache},
	}, nil
}

func loadSources(cfg config.FeedConfig) (feed.Sources, error) {
	if cfg.ManifestPath != "" {
		return feed.LoadSources(cfg.ManifestPath)
	}
	return feed.Sources{
		Tasks:  cfg.TasksURL,
		Topics: cfg.TopicsURL,
		Quiz:   cfg.QuizURL,
	}, nil
}

func buildSchedule(cfg config.CourseConfig) (*schedule.Schedule, error) {
	if cfg.SchedulePath != "" {
		schedCfg, err := schedule.LoadConfig(cfg.SchedulePath)
		if err != nil {
			return nil, err
		}
		return schedCfg.Build(cfg.StartDate)
	}
	return schedule.New(cfg.StartDate, schedule.DefaultChapterLessonCounts()), nil
}
