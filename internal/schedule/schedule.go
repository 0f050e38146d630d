// Package schedule computes time-gated lesson availability. A Schedule is an
// immutable value built once from a start date and per-chapter lesson counts;
// queries take an explicit reference time, so arbitrary dates are testable.
package schedule

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultChapterLessonCounts is the stock course layout: chapter 1 has 9
// lessons, chapters 2-12 have 10 each except chapter 5 which has 11. Lesson
// ids follow the les_{chapter}_{n} pattern.
func DefaultChapterLessonCounts() []int {
	counts := make([]int, 12)
	for i := range counts {
		counts[i] = 10
	}
	counts[0] = 9
	counts[4] = 11
	return counts
}

// Schedule maps lesson ids to unlock dates.
type Schedule struct {
	start    time.Time
	unlockAt map[string]time.Time
	order    []string
}

// New builds a schedule from a course start date and per-chapter lesson
// counts, generating les_{chapter}_{n} ids. The first lesson unlocks on the
// start date; each subsequent lesson unlocks on the next calendar day that is
// not a Sunday, one lesson per day.
func New(start time.Time, counts []int) *Schedule {
	var ids []string
	for chapter, n := range counts {
		for lesson := 1; lesson <= n; lesson++ {
			ids = append(ids, lessonID(chapter+1, lesson))
		}
	}
	return FromLessonIDs(start, ids)
}

// FromLessonIDs builds a schedule over an explicit lesson enumeration, in
// unlock order. Use this to derive the schedule from a fetched catalog
// instead of the stock layout.
func FromLessonIDs(start time.Time, lessonIDs []string) *Schedule {
	s := &Schedule{
		start:    midnight(start),
		unlockAt: make(map[string]time.Time, len(lessonIDs)),
		order:    lessonIDs,
	}

	day := s.start
	for i, id := range lessonIDs {
		if i > 0 {
			day = nextUnlockDay(day)
		}
		s.unlockAt[id] = day
	}
	return s
}

// nextUnlockDay advances one calendar day, then keeps advancing while the
// day lands on a Sunday.
func nextUnlockDay(day time.Time) time.Time {
	day = day.AddDate(0, 0, 1)
	for day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// UnlockDate returns the unlock date for a lesson id. The second return is
// false when the lesson is not in the enumeration.
func (s *Schedule) UnlockDate(lessonID string) (time.Time, bool) {
	d, ok := s.unlockAt[lessonID]
	return d, ok
}

// IsLessonUnlocked reports whether a lesson is available as of the given
// time. Comparisons are at day granularity: a lesson unlocks at the start of
// its unlock date. A lesson outside the enumeration fails open as unlocked.
func (s *Schedule) IsLessonUnlocked(lessonID string, asOf time.Time) bool {
	unlock, ok := s.unlockAt[lessonID]
	if !ok {
		slog.Warn("lesson not in unlock schedule, treating as unlocked", "lesson_id", lessonID)
		return true
	}
	return !midnight(asOf).Before(unlock)
}

// DaysUntilUnlock returns how many whole days remain until a lesson unlocks,
// zero when it is already unlocked or unknown.
func (s *Schedule) DaysUntilUnlock(lessonID string, asOf time.Time) int {
	unlock, ok := s.unlockAt[lessonID]
	if !ok {
		return 0
	}
	days := int(unlock.Sub(midnight(asOf)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsChapterUnlocked reports whether any of the supplied lessons is unlocked.
// Chapters carry no unlock dates of their own.
func (s *Schedule) IsChapterUnlocked(lessonIDs []string, asOf time.Time) bool {
	for _, id := range lessonIDs {
		if s.IsLessonUnlocked(id, asOf) {
			return true
		}
	}
	return false
}

// StartDate returns the course start date at day granularity.
func (s *Schedule) StartDate() time.Time {
	return s.start
}

// LessonIDs returns the enumeration in unlock order.
func (s *Schedule) LessonIDs() []string {
	return append([]string(nil), s.order...)
}

func lessonID(chapter, lesson int) string {
	return fmt.Sprintf("les_%d_%d", chapter, lesson)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
