// Package canvas defines the drawing surface used during practice and a
// terminal cell-grid implementation of it.
package canvas

import (
	"errors"
	"time"
)

// ErrCorruptSnapshot is returned by Restore when a snapshot cannot be read.
var ErrCorruptSnapshot = errors.New("corrupt canvas snapshot")

// Stroke summarizes one committed pointer stroke.
type Stroke struct {
	At         time.Time
	Pressure   float64
	DurationMs int64
	Points     int
}

// Canvas is the capability the practice flow needs from a drawing surface.
// Snapshots are opaque to callers.
type Canvas interface {
	Snapshot() []byte
	Restore(snap []byte) error
	Clear()
	OnStrokeCommitted(fn func(Stroke))
}
