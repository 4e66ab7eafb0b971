package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/inkdrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "inkdrill",
	Short:        "Handwriting practice in the terminal",
	Long:         "inkdrill: practice writing characters on a terminal canvas, track what you have mastered and export session reports.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
	addPracticeFlags(rootCmd.Flags())

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(versionCmd)
}

func addGlobalFlags(pf *pflag.FlagSet) {
	pf.String("db", "", "Path to SQLite database file (overrides INKDRILL_DB env var)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/inkdrill/config.toml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Write logs to this file instead of stderr")
}

func addPracticeFlags(f *pflag.FlagSet) {
	f.String("items", "", "Characters to practice, comma or pipe separated")
	f.String("type", "", "Session type label stored with the results")
	f.String("level", "", "Session level; also picks the catalog tier when --items is empty")
	f.String("date", "", "Session date label, YYYY-MM-DD (default today)")
	f.String("export-dir", ".", "Directory the summary screen exports reports into")
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then INKDRILL_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
