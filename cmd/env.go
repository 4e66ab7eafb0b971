package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/inkdrill/internal/config"
	"github.com/abhisek/inkdrill/internal/store"
)

// env is what every command starts from: resolved config, an open store and
// a logger. close must be called when the command returns.
type env struct {
	cfg    config.Config
	store  *store.Store
	logger *slog.Logger
	closer func()
}

func (e *env) close() {
	if e.closer != nil {
		e.closer()
	}
}

// setup loads the environment and opens the store. A store failure is
// fatal here; only the practice TUI runs without storage.
func setup(cmd *cobra.Command, tui bool) (*env, error) {
	e, err := loadEnv(cmd, tui)
	if err != nil {
		return nil, err
	}
	if err := e.openStore(cmd); err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

// loadEnv loads the config file and applies the persistent flags. With tui
// set, logs go to the configured file or are discarded so they cannot
// corrupt the alt screen.
func loadEnv(cmd *cobra.Command, tui bool) (*env, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	logger, closeLog, err := newLogger(cfg.Log, tui)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, closer: closeLog}, nil
}

// openStore opens the database and overlays persisted settings onto the
// config.
func (e *env) openStore(cmd *cobra.Command) error {
	dbPath, err := resolveDBPath(cmd, e.cfg.Store.DBPath)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.cfg.Store.DBPath = dbPath

	settings, err := st.LoadSettings(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not load settings: %v\n", err)
	} else {
		e.cfg = e.cfg.WithSettings(settings)
	}

	closeLog := e.closer
	e.closer = func() {
		if err := st.Close(); err != nil {
			e.logger.Warn("close store", "error", err)
		}
		closeLog()
	}
	return nil
}

func newLogger(lc config.LogConfig, tui bool) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	switch {
	case lc.File != "":
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case tui:
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}
