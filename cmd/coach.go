package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/inkdrill/internal/coach"
)

var coachCmd = &cobra.Command{
	Use:   "coach [session-id]",
	Short: "Ask the configured LLM for advice on a saved session",
	Long: "Send a saved session report to the coach and print its advice. Without an id the most " +
		"recent session is used. The provider is picked by INKDRILL_COACH_PROVIDER or the first " +
		"provider API key found in the environment.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		if v, _ := cmd.Flags().GetString("provider"); v != "" {
			e.cfg.Coach.Provider = v
		}
		if v, _ := cmd.Flags().GetString("model"); v != "" {
			e.cfg.Coach.Model = v
		}

		c, err := newCoach(cmd.Context(), e)
		if errors.Is(err, coach.ErrDisabled) {
			return errors.New("no coach provider configured; set INKDRILL_COACH_PROVIDER and its API key")
		}
		if err != nil {
			return err
		}

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		rec, err := findSession(cmd.Context(), e.store, id)
		if err != nil {
			return err
		}
		r, err := storedReport(rec)
		if err != nil {
			return err
		}

		advice, err := c.Advise(cmd.Context(), r)
		if err != nil {
			return fmt.Errorf("coach: %w", err)
		}
		writeAdvice(os.Stdout, advice)
		return nil
	},
}

func init() {
	coachCmd.Flags().String("provider", "", "Coach provider: anthropic, openai, openrouter, gemini, mock")
	coachCmd.Flags().String("model", "", "Model name or alias for the provider")
}

func writeAdvice(w io.Writer, a *coach.Advice) {
	fmt.Fprintln(w, a.Summary)
	if len(a.Tips) > 0 {
		fmt.Fprintln(w)
		for _, t := range a.Tips {
			fmt.Fprintf(w, "  %s  %s\n", t.Item, t.Advice)
		}
	}
	if len(a.NextFocus) > 0 {
		fmt.Fprintf(w, "\nNext focus: %s\n", strings.Join(a.NextFocus, " "))
	}
}
