package export

import (
	"strconv"
	"strings"

	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/round"
)

// CSVHeader lists the CSV columns in order.
var CSVHeader = []string{
	"item", "pronunciation", "meaning", "stroke_count", "tier",
	"status", "attempts", "time_spent_sec", "strokes", "notes",
}

// CSV renders one row per item in session order. Every field is quoted.
func CSV(r results.Report) string {
	var b strings.Builder
	writeRow(&b, CSVHeader)
	for _, it := range r.Items {
		writeRow(&b, []string{
			it.Item,
			it.Meta.Pronunciation,
			it.Meta.Meaning,
			strconv.Itoa(it.Meta.StrokeCount),
			string(it.Meta.Tier),
			string(it.Status),
			strconv.Itoa(it.Attempts),
			strconv.FormatInt(round.Div(it.TimeSpentMs, 1000), 10),
			strconv.Itoa(it.Strokes),
			strings.Join(it.Notes, "; "),
		})
	}
	return b.String()
}

// writeRow writes fields as an RFC 4180 record with every field quoted.
// encoding/csv only quotes when required, so rows are built by hand.
func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
