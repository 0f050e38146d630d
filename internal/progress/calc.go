// Package progress derives completion state: per-task statistics, lesson
// completeness across task and learning signals, and the completion stores
// those signals live in.
package progress

import (
	"math"

	"github.com/studyloop/studyloop/internal/course"
)

// IDSet is a set of string identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts an id.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Union returns a new set holding every id from both sets.
func (s IDSet) Union(other IDSet) IDSet {
	u := make(IDSet, len(s)+len(other))
	for id := range s {
		u[id] = struct{}{}
	}
	for id := range other {
		u[id] = struct{}{}
	}
	return u
}

// IDs returns the members as a slice, in no particular order.
func (s IDSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Stats summarizes completion over a task subset.
type Stats struct {
	TotalTasks        int `json:"totalTasks"`
	CompletedTasks    int `json:"completedTasks"`
	CompletionPercent int `json:"completionPercentage"`
	TotalXP           int `json:"totalXP"`
	EarnedXP          int `json:"earnedXP"`
	XPPercent         int `json:"xpPercentage"`
}

// Calculate computes stats for the given tasks against a completed-id set.
// Only the intersection counts: completion ids for tasks outside the subset
// never inflate the subset's numbers, so lesson-level stats stay correct even
// against a course-wide id set. Pure function, no I/O.
func Calculate(tasks []course.Task, completed IDSet) Stats {
	st := Stats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		st.TotalXP += t.XP
		if completed.Has(t.ID) {
			st.CompletedTasks++
			st.EarnedXP += t.XP
		}
	}
	st.CompletionPercent = percent(st.CompletedTasks, st.TotalTasks)
	st.XPPercent = percent(st.EarnedXP, st.TotalXP)
	return st
}

// percent rounds part/total to a whole percentage, zero when total is zero.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
