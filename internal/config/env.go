package config

import (
	"fmt"
	"os"
	"strconv"
)

// ApplyEnv overlays INKDRILL_* environment variables onto c. Unset or empty
// variables leave the value unchanged.
func (c Config) ApplyEnv() (Config, error) {
	if err := envBool("INKDRILL_AUTO_ADVANCE", &c.Session.AutoAdvance); err != nil {
		return c, err
	}
	if err := envBool("INKDRILL_COUNT_REPEATED_STATUS", &c.Session.CountRepeatedStatus); err != nil {
		return c, err
	}
	if err := envBool("INKDRILL_SHUFFLE", &c.Session.Shuffle); err != nil {
		return c, err
	}
	if v := os.Getenv("INKDRILL_SESSION_TYPE"); v != "" {
		c.Session.DefaultType = v
	}
	if v := os.Getenv("INKDRILL_SESSION_LEVEL"); v != "" {
		c.Session.DefaultLevel = v
	}

	if err := envInt("INKDRILL_CANVAS_WIDTH", &c.Canvas.Width); err != nil {
		return c, err
	}
	if err := envInt("INKDRILL_CANVAS_HEIGHT", &c.Canvas.Height); err != nil {
		return c, err
	}

	if v := os.Getenv("INKDRILL_DB"); v != "" {
		c.Store.DBPath = v
	}
	if v := os.Getenv("INKDRILL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("INKDRILL_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("INKDRILL_COACH_PROVIDER"); v != "" {
		c.Coach.Provider = v
	}
	if v := os.Getenv("INKDRILL_COACH_MODEL"); v != "" {
		c.Coach.Model = v
	}
	if v := os.Getenv("INKDRILL_GLYPH_FILE"); v != "" {
		c.Glyph.File = v
	}
	return c, nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	*dst = b
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", key, v)
	}
	*dst = n
	return nil
}
