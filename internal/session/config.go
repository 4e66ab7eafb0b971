package session

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// Config controls tracker behavior. The zero value is not useful; start
// from DefaultConfig.
type Config struct {
	// AutoAdvance moves to the next item when an item is marked mastered.
	AutoAdvance bool

	// CountRepeatedStatus increments attempts even when the new status
	// equals the current one. When false, a repeated status without a note
	// leaves attempts unchanged.
	CountRepeatedStatus bool

	// Shuffle randomizes item order once at creation.
	Shuffle bool

	// TickInterval is the period of the display tick.
	TickInterval time.Duration

	// AccumulateInterval is the period at which active time is flushed into
	// the current item's record.
	AccumulateInterval time.Duration
}

// DefaultConfig returns the default tracker configuration.
func DefaultConfig() Config {
	return Config{
		AutoAdvance:         false,
		CountRepeatedStatus: true,
		Shuffle:             false,
		TickInterval:        time.Second,
		AccumulateInterval:  5 * time.Second,
	}
}

// Options carries the tracker's collaborators. Nil fields get defaults.
type Options struct {
	Now       func() time.Time
	Scheduler Scheduler
	Rand      *rand.Rand
	Logger    *slog.Logger

	// OnTick receives the session's active duration on every display tick.
	// It runs on the scheduler's goroutine and must not call back into the
	// tracker while holding its own locks.
	OnTick func(elapsed time.Duration)
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Scheduler == nil {
		o.Scheduler = TickerScheduler{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
