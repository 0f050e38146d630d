package schedule

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML override for the stock course layout.
type Config struct {
	StartDate      string `yaml:"start_date"` // YYYY-MM-DD, optional
	ChapterLessons []int  `yaml:"chapter_lessons"`
}

// LoadConfig reads a schedule config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading schedule config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing schedule config: %w", err)
	}

	for i, n := range cfg.ChapterLessons {
		if n < 0 {
			return Config{}, fmt.Errorf("schedule config: chapter %d has negative lesson count %d", i+1, n)
		}
	}
	return cfg, nil
}

// Build creates a schedule from the config, falling back to the given start
// date and the stock layout for fields the config leaves empty.
func (c Config) Build(defaultStart time.Time) (*Schedule, error) {
	start := defaultStart
	if c.StartDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", c.StartDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("schedule config: bad start_date: %w", err)
		}
		start = parsed
	}

	counts := c.ChapterLessons
	if len(counts) == 0 {
		counts = DefaultChapterLessonCounts()
	}
	return New(start, counts), nil
}
