package course

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyloop/studyloop/internal/feed"
)

// Loader rebuilds the catalog from the configured feeds. Every call
// reconstructs the full tree from scratch; freshness comes from the
// fetcher's payload cache, not from incremental mutation.
type Loader struct {
	fetcher *feed.Fetcher
	sources feed.Sources
	strict  bool
}

// NewLoader creates a catalog loader. strict controls whether quiz questions
// with an unparsable correct-answer letter are dropped or defaulted.
func NewLoader(f *feed.Fetcher, sources feed.Sources, strict bool) *Loader {
	return &Loader{fetcher: f, sources: sources, strict: strict}
}

// Load fetches all configured feeds and builds a fresh catalog. The tasks
// feed is required; topics and quiz feeds are optional and skipped when no
// URL is configured.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	tasksPayload, err := l.fetcher.Fetch(ctx, l.sources.Tasks)
	if err != nil {
		return nil, fmt.Errorf("loading tasks feed: %w", err)
	}

	cat := &Catalog{
		Courses: BuildCourses(TaskRows(feed.ParseCSV(tasksPayload))),
	}

	if l.sources.Topics != "" {
		payload, err := l.fetcher.Fetch(ctx, l.sources.Topics)
		if err != nil {
			return nil, fmt.Errorf("loading topics feed: %w", err)
		}
		cat.Topics = OrganizeTopics(TopicRows(feed.ParseCSV(payload)))
	}

	if l.sources.Quiz != "" {
		payload, err := l.fetcher.Fetch(ctx, l.sources.Quiz)
		if err != nil {
			return nil, fmt.Errorf("loading quiz feed: %w", err)
		}
		cat.Questions = OrganizeQuiz(QuizRows(feed.ParseCSV(payload)), l.strict)
	}

	slog.Info("catalog loaded",
		"courses", len(cat.Courses),
		"topics", len(cat.Topics),
		"questions", len(cat.Questions),
	)
	return cat, nil
}
