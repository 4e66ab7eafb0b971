// Package results derives categorized outcomes and statistics from a
// practice session.
package results

import (
	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/session"
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	PriorityPositive Priority = "positive"
)

// Kind names the rule that produced a recommendation.
type Kind string

const (
	KindCompletion  Kind = "completion"
	KindNeedsWork   Kind = "needs-work"
	KindPacing      Kind = "pacing"
	KindSuccess     Kind = "success"
	KindImprovement Kind = "improvement"
)

// Recommendation is a single actionable hint.
type Recommendation struct {
	Kind     Kind
	Priority Priority
	Message  string
}

// ItemResult is the per-item breakdown of a report.
type ItemResult struct {
	Item        string
	Meta        glyph.Metadata
	Status      session.Status
	Attempts    int
	TimeSpentMs int64
	Strokes     int
	Notes       []string
}

// Report is the aggregated outcome of a session.
type Report struct {
	SessionID string
	Date      string
	Type      string
	Level     string
	State     session.State

	// Items lists every item in session order.
	Items []ItemResult

	Mastered     []string
	NeedsWork    []string
	NotPracticed []string

	TotalItems     int
	PracticedCount int
	CompletionPct  int
	SuccessRate    int

	TotalAttempts   int
	AverageAttempts int
	TotalStrokes    int

	DurationMs            int64
	AverageTimePerItemSec int

	Recommendations []Recommendation
}

// DurationMinutes returns the session duration in whole minutes, rounded half up.
func (r Report) DurationMinutes() int {
	return int((r.DurationMs + 30_000) / 60_000)
}

// Bucket returns the members of the bucket for status.
func (r Report) Bucket(s session.Status) []string {
	switch s {
	case session.StatusMastered:
		return r.Mastered
	case session.StatusNeedsWork:
		return r.NeedsWork
	default:
		return r.NotPracticed
	}
}
