package canvas

import (
	"log/slog"

	"github.com/abhisek/inkdrill/internal/history"
)

// Editor pairs a Canvas with a bounded undo/redo history. Every committed
// stroke and every clear is recorded.
type Editor struct {
	canvas  Canvas
	history *history.Stack
	logger  *slog.Logger
}

// NewEditor starts history from the canvas's current contents.
func NewEditor(c Canvas, limit int, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Editor{
		canvas:  c,
		history: history.NewWithLimit(c.Snapshot(), limit),
		logger:  logger,
	}
	c.OnStrokeCommitted(func(Stroke) {
		e.history.Push(e.canvas.Snapshot())
	})
	return e
}

// Canvas returns the edited canvas.
func (e *Editor) Canvas() Canvas { return e.canvas }

// History returns the underlying stack.
func (e *Editor) History() *history.Stack { return e.history }

// Undo restores the previous snapshot. It reports whether the canvas changed.
func (e *Editor) Undo() bool {
	snap, ok := e.history.Undo()
	if !ok {
		return false
	}
	if !e.apply(snap) {
		e.history.Redo()
		return false
	}
	return true
}

// Redo reapplies the next snapshot. It reports whether the canvas changed.
func (e *Editor) Redo() bool {
	snap, ok := e.history.Redo()
	if !ok {
		return false
	}
	if !e.apply(snap) {
		e.history.Undo()
		return false
	}
	return true
}

// Clear erases the canvas as an undoable edit.
func (e *Editor) Clear() {
	e.canvas.Clear()
	e.history.Push(e.canvas.Snapshot())
}

// Reset erases the canvas and forgets all history. Used when moving to a
// different item.
func (e *Editor) Reset() {
	e.canvas.Clear()
	e.history.Reset(e.canvas.Snapshot())
}

func (e *Editor) apply(snap []byte) bool {
	if err := e.canvas.Restore(snap); err != nil {
		e.logger.Warn("keeping last good canvas", "error", err)
		return false
	}
	return true
}
