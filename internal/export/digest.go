// Package export renders a results report in stable textual formats.
//
// Every renderer is deterministic: identical reports produce byte-identical
// output. The JSON document's exportedAt field is the only value that
// depends on the wall clock, and it is supplied by the caller.
package export

import (
	"fmt"
	"strings"

	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/session"
)

// DigestHeader is the first line of every plain-text digest.
const DigestHeader = "=== inkdrill practice report ==="

// Digest renders the tagged plain-text digest.
func Digest(r results.Report) string {
	var b strings.Builder

	b.WriteString(DigestHeader)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Session: %s | Duration: %d min | Items: %d\n", r.Type, r.DurationMinutes(), r.TotalItems)
	fmt.Fprintf(&b, "Date: %s | Level: %s\n", r.Date, r.Level)

	for _, s := range session.AllStatuses() {
		members := r.Bucket(s)
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", s.Label(), strings.Join(members, ", "))
	}

	if r.PracticedCount > 0 {
		b.WriteString("\nDetails:\n")
		for _, it := range r.Items {
			if !it.Status.Practiced() {
				continue
			}
			fmt.Fprintf(&b, "  %s: %d %s, %s\n", it.Item, it.Attempts, plural(it.Attempts, "attempt", "attempts"), it.Status)
		}
	}

	b.WriteByte('\n')
	b.WriteString(DigestLine(r))
	b.WriteByte('\n')
	return b.String()
}

// DigestLine renders the single machine-parsable key:value line.
func DigestLine(r results.Report) string {
	fields := []string{
		"mastered:" + strings.Join(r.Mastered, ","),
		"needs_work:" + strings.Join(r.NeedsWork, ","),
		"not_practiced:" + strings.Join(r.NotPracticed, ","),
		fmt.Sprintf("duration:%d", r.DurationMinutes()),
		"session:" + r.Type,
		fmt.Sprintf("success_rate:%d", r.SuccessRate),
	}
	return strings.Join(fields, "|")
}

// ParseDigestLine splits a digest line back into its keys and values.
// List values are returned comma-joined as they appear.
func ParseDigestLine(line string) (map[string]string, error) {
	out := make(map[string]string)
	for _, field := range strings.Split(strings.TrimSpace(line), "|") {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("malformed digest field %q", field)
		}
		out[key] = value
	}
	for _, k := range []string{"mastered", "needs_work", "not_practiced", "duration", "session", "success_rate"} {
		if _, ok := out[k]; !ok {
			return nil, fmt.Errorf("digest missing %q", k)
		}
	}
	return out, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
