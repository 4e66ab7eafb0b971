package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/inkdrill/internal/app"
	"github.com/abhisek/inkdrill/internal/autosave"
	"github.com/abhisek/inkdrill/internal/coach"
	"github.com/abhisek/inkdrill/internal/config"
	"github.com/abhisek/inkdrill/internal/glyph"
)

const dateLayout = "2006-01-02"

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := loadEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	deps, cleanup, err := newAppDeps(cmd, e)
	if err != nil {
		return err
	}
	defer cleanup()

	return app.Run(cmd.Context(), deps)
}

// newAppDeps resolves everything the TUI needs. Storage that cannot be
// opened only disables saving: the session still runs in memory. The
// returned cleanup flushes the final save.
func newAppDeps(cmd *cobra.Command, e *env) (app.Deps, func(), error) {
	storeErr := e.openStore(cmd)

	if v, _ := cmd.Flags().GetString("type"); v != "" {
		e.cfg.Session.DefaultType = v
	}
	if v, _ := cmd.Flags().GetString("level"); v != "" {
		e.cfg.Session.DefaultLevel = v
	}
	date, _ := cmd.Flags().GetString("date")
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return app.Deps{}, nil, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
		}
	}
	items, _ := cmd.Flags().GetString("items")
	exportDir, _ := cmd.Flags().GetString("export-dir")

	catalog, err := loadCatalog(e.cfg)
	if err != nil {
		return app.Deps{}, nil, err
	}

	deps := app.Deps{
		Config:    e.cfg,
		Catalog:   catalog,
		Items:     items,
		Date:      date,
		ExportDir: exportDir,
		Logger:    e.logger,
	}
	cleanup := func() {}

	if storeErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: storage unavailable, progress will not be saved: %v\n", storeErr)
		e.logger.Error("storage unavailable", "error", storeErr)
	} else {
		saver := autosave.New(e.store, e.logger)
		deps.Repo = e.store
		deps.Saver = saver
		cleanup = func() {
			ctx, cancel := context.WithTimeout(context.Background(), autosave.DefaultSaveTimeout)
			defer cancel()
			if err := saver.Close(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: final save did not finish: %v\n", err)
			}
		}
	}

	advisor, err := newCoach(cmd.Context(), e)
	switch {
	case errors.Is(err, coach.ErrDisabled):
	case err != nil:
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: coach unavailable: %v\n", err)
	default:
		deps.Advisor = advisor
	}

	return deps, cleanup, nil
}

// loadCatalog returns the built-in catalog merged with the configured extra
// glyph file. A missing file is not an error.
func loadCatalog(cfg config.Config) (*glyph.Catalog, error) {
	path := cfg.Glyph.File
	if path == "" {
		path = config.DefaultGlyphPath()
	}
	catalog, err := glyph.Default().LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load glyph catalog: %w", err)
	}
	return catalog, nil
}

func newCoach(ctx context.Context, e *env) (*coach.Coach, error) {
	cc, err := coach.ConfigFromEnv(e.cfg.Coach.Provider, e.cfg.Coach.Model)
	if err != nil {
		return nil, err
	}
	p, err := coach.NewProvider(ctx, cc, e.logger)
	if err != nil {
		return nil, err
	}
	return coach.New(p, cc.Timeout), nil
}
