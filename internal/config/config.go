package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/store"
)

// Config is the resolved application configuration.
type Config struct {
	Session SessionConfig
	Canvas  CanvasConfig
	Store   StoreConfig
	Log     LogConfig
	Coach   CoachConfig
	Glyph   GlyphConfig
}

// SessionConfig holds practice session defaults.
type SessionConfig struct {
	AutoAdvance         bool
	CountRepeatedStatus bool
	Shuffle             bool
	DefaultType         string
	DefaultLevel        string
}

// CanvasConfig sizes the drawing grid.
type CanvasConfig struct {
	Width        int
	Height       int
	HistoryLimit int
}

// StoreConfig locates the database. An empty DBPath means store.DefaultDBPath.
type StoreConfig struct {
	DBPath string
}

// LogConfig controls slog output. An empty File logs to stderr.
type LogConfig struct {
	Level string
	File  string
}

// CoachConfig selects the optional LLM coach. API keys are read from the
// environment by the coach package and never from the file.
type CoachConfig struct {
	Provider string
	Model    string
}

// GlyphConfig points at an optional extra catalog.
type GlyphConfig struct {
	File string
}

// Default returns the built-in configuration.
func Default() Config {
	tracker := session.DefaultConfig()
	return Config{
		Session: SessionConfig{
			AutoAdvance:         tracker.AutoAdvance,
			CountRepeatedStatus: tracker.CountRepeatedStatus,
			Shuffle:             tracker.Shuffle,
			DefaultType:         session.DefaultType,
			DefaultLevel:        session.DefaultLevel,
		},
		Canvas: CanvasConfig{
			Width:        32,
			Height:       16,
			HistoryLimit: 50,
		},
		Log: LogConfig{
			Level: "info",
		},
		Coach: CoachConfig{
			Provider: "",
		},
		Glyph: GlyphConfig{
			File: DefaultGlyphPath(),
		},
	}
}

// FileConfig represents the TOML configuration file. Absent keys are nil.
type FileConfig struct {
	Session struct {
		AutoAdvance         *bool   `toml:"auto_advance"`
		CountRepeatedStatus *bool   `toml:"count_repeated_status"`
		Shuffle             *bool   `toml:"shuffle"`
		DefaultType         *string `toml:"default_type"`
		DefaultLevel        *string `toml:"default_level"`
	} `toml:"session"`
	Canvas struct {
		Width        *int `toml:"width"`
		Height       *int `toml:"height"`
		HistoryLimit *int `toml:"history_limit"`
	} `toml:"canvas"`
	Store struct {
		DBPath *string `toml:"db_path"`
	} `toml:"store"`
	Log struct {
		Level *string `toml:"level"`
		File  *string `toml:"file"`
	} `toml:"log"`
	Coach struct {
		Provider *string `toml:"provider"`
		Model    *string `toml:"model"`
	} `toml:"coach"`
	Glyph struct {
		File *string `toml:"file"`
	} `toml:"glyph"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return fc, nil
}

// Apply overlays the keys present in fc onto c.
func (c Config) Apply(fc FileConfig) Config {
	setBool(&c.Session.AutoAdvance, fc.Session.AutoAdvance)
	setBool(&c.Session.CountRepeatedStatus, fc.Session.CountRepeatedStatus)
	setBool(&c.Session.Shuffle, fc.Session.Shuffle)
	setString(&c.Session.DefaultType, fc.Session.DefaultType)
	setString(&c.Session.DefaultLevel, fc.Session.DefaultLevel)
	setInt(&c.Canvas.Width, fc.Canvas.Width)
	setInt(&c.Canvas.Height, fc.Canvas.Height)
	setInt(&c.Canvas.HistoryLimit, fc.Canvas.HistoryLimit)
	setString(&c.Store.DBPath, fc.Store.DBPath)
	setString(&c.Log.Level, fc.Log.Level)
	setString(&c.Log.File, fc.Log.File)
	setString(&c.Coach.Provider, fc.Coach.Provider)
	setString(&c.Coach.Model, fc.Coach.Model)
	setString(&c.Glyph.File, fc.Glyph.File)
	return c
}

// WithSettings overlays persisted user settings onto c.
func (c Config) WithSettings(s store.Settings) Config {
	setBool(&c.Session.AutoAdvance, s.AutoAdvance)
	setBool(&c.Session.CountRepeatedStatus, s.CountRepeatedStatus)
	setBool(&c.Session.Shuffle, s.Shuffle)
	setString(&c.Session.DefaultType, s.DefaultType)
	setString(&c.Session.DefaultLevel, s.DefaultLevel)
	setInt(&c.Canvas.Width, s.CanvasWidth)
	setInt(&c.Canvas.Height, s.CanvasHeight)
	return c
}

// Load resolves the configuration: defaults, then the file at path, then
// the environment.
func Load(path string) (Config, error) {
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Default().Apply(fc).ApplyEnv()
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports values that cannot be used.
func (c Config) Validate() error {
	if c.Canvas.Width < 4 || c.Canvas.Height < 4 {
		return fmt.Errorf("canvas must be at least 4x4, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.HistoryLimit < 1 {
		return fmt.Errorf("canvas history_limit must be positive, got %d", c.Canvas.HistoryLimit)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Tracker returns the session tracker configuration.
func (c Config) Tracker() session.Config {
	tc := session.DefaultConfig()
	tc.AutoAdvance = c.Session.AutoAdvance
	tc.CountRepeatedStatus = c.Session.CountRepeatedStatus
	tc.Shuffle = c.Session.Shuffle
	return tc
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
