// Package coach asks an LLM for practice advice based on a session report.
// It is optional and never runs on the practice path.
package coach

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a single-turn prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider targets.
	ModelID() string
}

// Request is a single-turn generation request.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks the provider for JSON conforming to it.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema names a JSON Schema definition.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "practice-advice".
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is a provider-neutral reason for the end of generation.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is the model output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish applies the checks every provider shares: truncation and schema
// validation.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through unchanged.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
