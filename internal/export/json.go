package export

import (
	"encoding/json"
	"time"

	"github.com/abhisek/inkdrill/internal/results"
)

type jsonReport struct {
	ExportedAt      string               `json:"exportedAt"`
	Session         jsonSession          `json:"session"`
	Summary         jsonSummary          `json:"summary"`
	Buckets         jsonBuckets          `json:"buckets"`
	Items           []jsonItem           `json:"items"`
	Recommendations []jsonRecommendation `json:"recommendations"`
}

type jsonSession struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Type            string `json:"type"`
	Level           string `json:"level"`
	State           string `json:"state"`
	DurationMs      int64  `json:"durationMs"`
	DurationMinutes int    `json:"durationMinutes"`
}

type jsonSummary struct {
	TotalItems            int `json:"totalItems"`
	Practiced             int `json:"practiced"`
	Mastered              int `json:"mastered"`
	NeedsWork             int `json:"needsWork"`
	NotPracticed          int `json:"notPracticed"`
	CompletionPct         int `json:"completionPct"`
	SuccessRate           int `json:"successRate"`
	TotalAttempts         int `json:"totalAttempts"`
	AverageAttempts       int `json:"averageAttempts"`
	AverageTimePerItemSec int `json:"averageTimePerItemSec"`
	TotalStrokes          int `json:"totalStrokes"`
}

type jsonBuckets struct {
	Mastered     []string `json:"mastered"`
	NeedsWork    []string `json:"needsWork"`
	NotPracticed []string `json:"notPracticed"`
}

type jsonItem struct {
	Item          string   `json:"item"`
	Pronunciation string   `json:"pronunciation"`
	Meaning       string   `json:"meaning"`
	StrokeCount   int      `json:"strokeCount"`
	Tier          string   `json:"tier"`
	Status        string   `json:"status"`
	Attempts      int      `json:"attempts"`
	TimeSpentMs   int64    `json:"timeSpentMs"`
	Strokes       int      `json:"strokes"`
	Notes         []string `json:"notes"`
}

type jsonRecommendation struct {
	Kind     string `json:"kind"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// JSON renders the structured report. exportedAt is formatted as RFC 3339
// in UTC and is the only time-dependent field.
func JSON(r results.Report, exportedAt time.Time) ([]byte, error) {
	doc := jsonReport{
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		Session: jsonSession{
			ID:              r.SessionID,
			Date:            r.Date,
			Type:            r.Type,
			Level:           r.Level,
			State:           string(r.State),
			DurationMs:      r.DurationMs,
			DurationMinutes: r.DurationMinutes(),
		},
		Summary: jsonSummary{
			TotalItems:            r.TotalItems,
			Practiced:             r.PracticedCount,
			Mastered:              len(r.Mastered),
			NeedsWork:             len(r.NeedsWork),
			NotPracticed:          len(r.NotPracticed),
			CompletionPct:         r.CompletionPct,
			SuccessRate:           r.SuccessRate,
			TotalAttempts:         r.TotalAttempts,
			AverageAttempts:       r.AverageAttempts,
			AverageTimePerItemSec: r.AverageTimePerItemSec,
			TotalStrokes:          r.TotalStrokes,
		},
		Buckets: jsonBuckets{
			Mastered:     nonNil(r.Mastered),
			NeedsWork:    nonNil(r.NeedsWork),
			NotPracticed: nonNil(r.NotPracticed),
		},
		Items:           make([]jsonItem, 0, len(r.Items)),
		Recommendations: make([]jsonRecommendation, 0, len(r.Recommendations)),
	}

	for _, it := range r.Items {
		doc.Items = append(doc.Items, jsonItem{
			Item:          it.Item,
			Pronunciation: it.Meta.Pronunciation,
			Meaning:       it.Meta.Meaning,
			StrokeCount:   it.Meta.StrokeCount,
			Tier:          string(it.Meta.Tier),
			Status:        string(it.Status),
			Attempts:      it.Attempts,
			TimeSpentMs:   it.TimeSpentMs,
			Strokes:       it.Strokes,
			Notes:         nonNil(it.Notes),
		})
	}
	for _, rec := range r.Recommendations {
		doc.Recommendations = append(doc.Recommendations, jsonRecommendation{
			Kind:     string(rec.Kind),
			Priority: string(rec.Priority),
			Message:  rec.Message,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
