package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/inkdrill/internal/store"
	"github.com/abhisek/inkdrill/internal/ui/layout"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cumulative practice statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		st, err := e.store.Statistics(cmd.Context())
		if err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}
		writeStats(os.Stdout, st)
		return nil
	},
}

func writeStats(w io.Writer, st store.Statistics) {
	if st.Sessions == 0 {
		fmt.Fprintln(w, "No sessions yet.")
		return
	}
	fmt.Fprintf(w, "Sessions:        %d (%d completed)\n", st.Sessions, st.CompletedSessions)
	fmt.Fprintf(w, "Items practiced: %d\n", st.ItemsPracticed)
	fmt.Fprintf(w, "Mastered:        %d\n", st.Mastered)
	fmt.Fprintf(w, "Needs work:      %d\n", st.NeedsWork)
	fmt.Fprintf(w, "Attempts:        %d\n", st.Attempts)
	fmt.Fprintf(w, "Practice time:   %s\n", layout.FormatElapsed(st.PracticeMs/1000))
	if !st.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Last updated:    %s\n", st.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}
