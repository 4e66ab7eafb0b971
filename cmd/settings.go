package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/inkdrill/internal/config"
	"github.com/abhisek/inkdrill/internal/store"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change saved practice settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		writeSettings(os.Stdout, e.cfg)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save settings that override the config file",
	Example: "  inkdrill settings set --auto-advance=false --level elementary\n" +
		"  inkdrill settings set --canvas-width 40 --canvas-height 20",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := settingsPatch(cmd)
		if err != nil {
			return err
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.store.SaveSettings(cmd.Context(), patch); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		writeSettings(os.Stdout, e.cfg.WithSettings(patch))
		return nil
	},
}

func init() {
	addSettingsFlags(settingsSetCmd.Flags())

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func addSettingsFlags(f *pflag.FlagSet) {
	f.Bool("auto-advance", false, "Move to the next item after marking one mastered")
	f.Bool("count-repeated-status", false, "Count an attempt when the same status is set again")
	f.Bool("shuffle", false, "Shuffle items at the start of a session")
	f.String("type", "", "Default session type")
	f.String("level", "", "Default session level")
	f.Int("canvas-width", 0, "Canvas width in cells")
	f.Int("canvas-height", 0, "Canvas height in cells")
}

// settingsPatch collects only the flags the user set.
func settingsPatch(cmd *cobra.Command) (store.Settings, error) {
	f := cmd.Flags()
	var patch store.Settings
	changed := false

	boolFlag := func(name string, dst **bool) {
		if f.Changed(name) {
			v, _ := f.GetBool(name)
			*dst = &v
			changed = true
		}
	}
	stringFlag := func(name string, dst **string) {
		if f.Changed(name) {
			v, _ := f.GetString(name)
			*dst = &v
			changed = true
		}
	}
	intFlag := func(name string, dst **int) {
		if f.Changed(name) {
			v, _ := f.GetInt(name)
			*dst = &v
			changed = true
		}
	}

	boolFlag("auto-advance", &patch.AutoAdvance)
	boolFlag("count-repeated-status", &patch.CountRepeatedStatus)
	boolFlag("shuffle", &patch.Shuffle)
	stringFlag("type", &patch.DefaultType)
	stringFlag("level", &patch.DefaultLevel)
	intFlag("canvas-width", &patch.CanvasWidth)
	intFlag("canvas-height", &patch.CanvasHeight)

	if !changed {
		return store.Settings{}, errors.New("no settings given; see --help")
	}
	for name, v := range map[string]*int{"canvas-width": patch.CanvasWidth, "canvas-height": patch.CanvasHeight} {
		if v != nil && *v < 4 {
			return store.Settings{}, fmt.Errorf("--%s must be at least 4, got %d", name, *v)
		}
	}
	return patch, nil
}

func writeSettings(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "auto_advance          %v\n", cfg.Session.AutoAdvance)
	fmt.Fprintf(w, "count_repeated_status %v\n", cfg.Session.CountRepeatedStatus)
	fmt.Fprintf(w, "shuffle               %v\n", cfg.Session.Shuffle)
	fmt.Fprintf(w, "default_type          %s\n", cfg.Session.DefaultType)
	fmt.Fprintf(w, "default_level         %s\n", cfg.Session.DefaultLevel)
	fmt.Fprintf(w, "canvas                %dx%d\n", cfg.Canvas.Width, cfg.Canvas.Height)
	fmt.Fprintf(w, "db_path               %s\n", cfg.Store.DBPath)
}
