// Package session tracks a single practice session: the ordered item list,
// per-item practice records, navigation, timing and derived progress.
package session

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is the practice status of a single item.
type Status string

const (
	StatusNotPracticed Status = "not-practiced"
	StatusNeedsWork    Status = "needs-work"
	StatusMastered     Status = "mastered"
)

// AllStatuses returns every status in bucket order.
func AllStatuses() []Status {
	return []Status{StatusMastered, StatusNeedsWork, StatusNotPracticed}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotPracticed, StatusNeedsWork, StatusMastered:
		return true
	}
	return false
}

// Practiced reports whether an item with this status counts as practiced.
func (s Status) Practiced() bool {
	return s == StatusNeedsWork || s == StatusMastered
}

// Label returns a human-readable label.
func (s Status) Label() string {
	switch s {
	case StatusMastered:
		return "Mastered"
	case StatusNeedsWork:
		return "Needs work"
	case StatusNotPracticed:
		return "Not practiced"
	default:
		return string(s)
	}
}

// ParseStatus parses a status name. Underscores and case are tolerated.
func ParseStatus(s string) (Status, error) {
	norm := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !norm.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return norm, nil
}

// State is the session-level lifecycle state.
type State string

const (
	StateActive    State = "active"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Stroke summarizes one committed pen stroke.
type Stroke struct {
	At         time.Time
	Pressure   float64
	DurationMs int64
}

// Feedback is a note attached to a status change.
type Feedback struct {
	At     time.Time
	Status Status
	Note   string
}

// Record is the practice record of a single item.
type Record struct {
	Item        string
	Status      Status
	Attempts    int
	TimeSpentMs int64
	StartedAt   *time.Time
	EndedAt     *time.Time
	Strokes     []Stroke
	Feedback    []Feedback
}

func (r *Record) clone() Record {
	out := *r
	out.StartedAt = cloneTime(r.StartedAt)
	out.EndedAt = cloneTime(r.EndedAt)
	out.Strokes = slices.Clone(r.Strokes)
	out.Feedback = slices.Clone(r.Feedback)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Descriptor carries the optional session labels supplied by the caller.
type Descriptor struct {
	ID    string
	Date  string // YYYY-MM-DD
	Type  string
	Level string
}

const (
	DefaultType  = "practice"
	DefaultLevel = "mixed"
	dateLayout   = "2006-01-02"
)

// Step is the outcome of Advance.
type Step int

const (
	StepBlocked   Step = iota // No movement; the session is completed.
	StepMoved                 // Moved to the next item.
	StepCompleted             // Advanced past the last item; the session is now completed.
)

func (s Step) String() string {
	switch s {
	case StepMoved:
		return "moved"
	case StepCompleted:
		return "completed"
	default:
		return "blocked"
	}
}

// Progress holds counts derived from the current records.
type Progress struct {
	Total        int
	Practiced    int
	Mastered     int
	NeedsWork    int
	NotPracticed int
	PracticedPct int
	MasteredPct  int
}
