package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/inkdrill/internal/results"
)

const (
	adviceMaxTokens   = 1024
	adviceTemperature = 0.3
)

// Tip is advice about one practiced item.
type Tip struct {
	Item   string `json:"item"`
	Advice string `json:"advice"`
}

// Advice is the coach's answer for one session.
type Advice struct {
	Summary   string   `json:"summary"`
	Tips      []Tip    `json:"tips"`
	NextFocus []string `json:"next_focus"`
}

var adviceSchema = &Schema{
	Name:        "practice-advice",
	Description: "Handwriting practice advice for one session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three sentences on how the session went.",
			},
			"tips": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item":   map[string]any{"type": "string"},
						"advice": map[string]any{"type": "string"},
					},
					"required":             []string{"item", "advice"},
					"additionalProperties": false,
				},
			},
			"next_focus": map[string]any{
				"type":        "array",
				"description": "Items to practice first next time.",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []string{"summary", "tips", "next_focus"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You coach a learner practicing handwritten characters.
You receive the results of one practice session. Give short, concrete advice
about stroke order, proportions and balance. Only mention items from the
session. Answer in English.`

// Coach turns session reports into advice.
type Coach struct {
	provider Provider
	timeout  time.Duration
}

// New returns a Coach using p. A zero timeout means no extra deadline.
func New(p Provider, timeout time.Duration) *Coach {
	return &Coach{provider: p, timeout: timeout}
}

// Advise asks the provider about r. Tips and focus items that do not
// belong to the session are dropped.
func (c *Coach) Advise(ctx context.Context, r results.Report) (*Advice, error) {
	if len(r.Items) == 0 {
		return nil, errors.New("report has no items")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.provider.Generate(ctx, Request{
		System:      systemPrompt,
		Prompt:      Prompt(r),
		Schema:      adviceSchema,
		MaxTokens:   adviceMaxTokens,
		Temperature: adviceTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	var advice Advice
	if err := json.Unmarshal(resp.Content, &advice); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return scope(advice, r), nil
}

// Prompt renders r as the user message sent to the model.
func Prompt(r results.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s, level %s, %d min, %d items.\n",
		r.Type, r.Level, r.DurationMinutes(), r.TotalItems)
	fmt.Fprintf(&b, "Success rate: %d%%. Average attempts: %d. Average time per item: %ds.\n\n",
		r.SuccessRate, r.AverageAttempts, r.AverageTimePerItemSec)

	b.WriteString("Items:\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "- %s (%s; %s; %d strokes): %s, %d attempts, %d strokes drawn",
			it.Item, it.Meta.Meaning, it.Meta.Pronunciation, it.Meta.StrokeCount,
			it.Status, it.Attempts, it.Strokes)
		if len(it.Notes) > 0 {
			fmt.Fprintf(&b, ", notes: %s", strings.Join(it.Notes, "; "))
		}
		b.WriteByte('\n')
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\nAlready shown to the learner:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- [%s] %s\n", rec.Priority, rec.Message)
		}
	}
	return b.String()
}

func scope(a Advice, r results.Report) *Advice {
	known := make(map[string]bool, len(r.Items))
	for _, it := range r.Items {
		known[it.Item] = true
	}

	out := &Advice{Summary: strings.TrimSpace(a.Summary), Tips: []Tip{}, NextFocus: []string{}}
	for _, t := range a.Tips {
		if known[t.Item] {
			out.Tips = append(out.Tips, t)
		}
	}
	for _, item := range a.NextFocus {
		if known[item] {
			out.NextFocus = append(out.NextFocus, item)
		}
	}
	return out
}
