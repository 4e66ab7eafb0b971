package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/abhisek/inkdrill/internal/export"
	"github.com/abhisek/inkdrill/internal/store"
	"github.com/abhisek/inkdrill/internal/ui/layout"
)

const needsWorkColWidth = 24

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		recs, err := e.store.LoadRecent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No sessions yet.")
			return nil
		}
		writeHistory(os.Stdout, recs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}

func writeHistory(w io.Writer, recs []store.SessionRecord) {
	fmt.Fprintf(w, "%-8s  %-16s  %-10s  %-12s  %-9s  %-8s  %7s  %s\n",
		"ID", "Saved", "Type", "Level", "Mastered", "Success", "Time", "Needs work")
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, rec := range recs {
		id := rec.ID
		if len(id) > 8 {
			id = id[:8]
		}
		state := ""
		if !rec.Completed() {
			state = " (" + rec.State + ")"
		}
		fmt.Fprintf(w, "%-8s  %-16s  %s  %s  %-9s  %-8s  %7s  %s%s\n",
			id,
			rec.SavedAt.Local().Format("2006-01-02 15:04"),
			cell(rec.Type, 10),
			cell(rec.Level, 12),
			fmt.Sprintf("%d/%d", rec.Mastered, rec.TotalItems),
			fmt.Sprintf("%d%%", rec.SuccessRate),
			layout.FormatElapsed(rec.DurationMs/1000),
			cell(needsWork(rec), needsWorkColWidth),
			state,
		)
	}
}

// cell pads or truncates s to width terminal columns. Wide glyphs count
// as two columns.
func cell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func needsWork(rec store.SessionRecord) string {
	r, _, err := export.ParseJSON(rec.Data)
	if err != nil {
		return "?"
	}
	if len(r.NeedsWork) == 0 {
		return "-"
	}
	return strings.Join(r.NeedsWork, " ")
}
