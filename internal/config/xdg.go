// Package config loads inkdrill configuration from a TOML file and
// INKDRILL_* environment variables.
package config

import (
	"os"
	"path/filepath"
)

const appName = "inkdrill"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultGlyphPath returns the default location of the extra glyph catalog.
func DefaultGlyphPath() string {
	return filepath.Join(XDGConfigHome(), appName, "glyphs.toml")
}
