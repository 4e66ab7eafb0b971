package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/inkdrill/internal/results"
)

// Format names an export format.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatCSV, FormatJSON}
}

// ParseFormat resolves a format name. "txt" is accepted for text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (want text, csv or json)", s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Render renders r in format f. now is used only by the JSON format.
func Render(f Format, r results.Report, now time.Time) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(Digest(r)), nil
	case FormatCSV:
		return []byte(CSV(r)), nil
	case FormatJSON:
		return JSON(r, now)
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// FileName returns the base file name used for r in format f.
func FileName(r results.Report, f Format) string {
	id := r.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("inkdrill-%s-%s%s", r.Date, id, f.Ext())
}

// WriteAll writes every format of r into dir concurrently and returns the
// written paths in Formats order.
func WriteAll(ctx context.Context, dir string, r results.Report, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	formats := Formats()
	paths := make([]string, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := Render(f, r, now)
			if err != nil {
				return fmt.Errorf("render %s: %w", f, err)
			}
			p := filepath.Join(dir, FileName(r, f))
			if err := os.WriteFile(p, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", p, err)
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
