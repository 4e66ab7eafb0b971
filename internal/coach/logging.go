package coach

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider records each request's outcome through slog.
type LoggingProvider struct {
	inner  Provider
	name   string
	logger *slog.Logger
}

// WithLogging wraps p so every request is logged under provider name.
func WithLogging(p Provider, name string, logger *slog.Logger) *LoggingProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingProvider{inner: p, name: name, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		"provider", l.name,
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
		"prompt_bytes", len(req.Prompt),
	}
	if req.Schema != nil {
		attrs = append(attrs, "schema", req.Schema.Name)
	}
	if err != nil {
		l.logger.Warn("coach request failed", append(attrs, "error", err)...)
		return nil, err
	}

	l.logger.Info("coach request",
		append(attrs,
			"served_by", resp.Model,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
