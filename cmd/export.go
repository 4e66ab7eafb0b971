package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/inkdrill/internal/export"
	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a saved session report",
	Long: "Export a saved session as text, CSV or JSON. Without an id the most recent session is used. " +
		"With --dir every format is written into that directory; otherwise --format is printed to stdout.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		dir, _ := cmd.Flags().GetString("dir")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		rec, err := findSession(cmd.Context(), e.store, id)
		if err != nil {
			return err
		}
		r, exportedAt, err := export.ParseJSON(rec.Data)
		if err != nil {
			return fmt.Errorf("session %s: %w", rec.ID, err)
		}

		if dir != "" {
			paths, err := export.WriteAll(cmd.Context(), dir, r, exportedAt)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		}

		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		data, err := export.Render(f, r, exportedAt)
		if err != nil {
			return err
		}
		if f == export.FormatText {
			if err := checkDigest(data); err != nil {
				return fmt.Errorf("session %s: %w", rec.ID, err)
			}
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", string(export.FormatText), "Output format: text, csv, json")
	exportCmd.Flags().StringP("dir", "d", "", "Write all formats into this directory")
}

// findSession returns the session with id, or the most recent one when id
// is empty.
func findSession(ctx context.Context, repo store.SessionRepo, id string) (store.SessionRecord, error) {
	if id != "" {
		rec, err := repo.GetSession(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return store.SessionRecord{}, fmt.Errorf("session %q not found", id)
		}
		return rec, err
	}

	recent, err := repo.LoadRecent(ctx, 1)
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("load sessions: %w", err)
	}
	if len(recent) == 0 {
		return store.SessionRecord{}, errors.New("no saved sessions")
	}
	return recent[0], nil
}

// checkDigest verifies that the last line of a text digest parses as the
// machine-readable summary.
func checkDigest(text []byte) error {
	lines := strings.Split(strings.TrimRight(string(text), "\n"), "\n")
	_, err := export.ParseDigestLine(lines[len(lines)-1])
	return err
}

// storedReport decodes the report document kept with rec.
func storedReport(rec store.SessionRecord) (results.Report, error) {
	r, _, err := export.ParseJSON(rec.Data)
	if err != nil {
		return results.Report{}, fmt.Errorf("session %s: %w", rec.ID, err)
	}
	return r, nil
}
