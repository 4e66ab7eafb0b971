// Package history keeps a bounded linear undo/redo log of canvas snapshots.
package history

// DefaultLimit is the maximum number of snapshots retained.
const DefaultLimit = 50

// Stack is a linear undo/redo history over opaque snapshots.
//
// The cursor always points at the snapshot that represents the current
// canvas. Pushing after an undo discards the abandoned future.
type Stack struct {
	entries [][]byte
	cursor  int
	limit   int
}

// New returns a Stack seeded with initial and the default limit.
func New(initial []byte) *Stack {
	return NewWithLimit(initial, DefaultLimit)
}

// NewWithLimit returns a Stack that retains at most limit snapshots.
// A limit below 1 is treated as 1.
func NewWithLimit(initial []byte, limit int) *Stack {
	if limit < 1 {
		limit = 1
	}
	s := &Stack{limit: limit}
	s.Reset(initial)
	return s
}

// Reset discards all history and starts over from initial.
func (s *Stack) Reset(initial []byte) {
	s.entries = [][]byte{clone(initial)}
	s.cursor = 0
}

// Push records snap as the newest snapshot.
func (s *Stack) Push(snap []byte) {
	s.entries = append(s.entries[:s.cursor+1], clone(snap))
	s.cursor = len(s.entries) - 1

	if over := len(s.entries) - s.limit; over > 0 {
		// Drop references before reslicing so evicted snapshots can be collected.
		for i := range over {
			s.entries[i] = nil
		}
		s.entries = s.entries[over:]
		s.cursor -= over
	}
}

// Undo moves the cursor back one step and returns the snapshot there.
// It reports false when there is nothing to undo.
func (s *Stack) Undo() ([]byte, bool) {
	if s.cursor == 0 {
		return nil, false
	}
	s.cursor--
	return clone(s.entries[s.cursor]), true
}

// Redo moves the cursor forward one step and returns the snapshot there.
// It reports false when there is nothing to redo.
func (s *Stack) Redo() ([]byte, bool) {
	if s.cursor >= len(s.entries)-1 {
		return nil, false
	}
	s.cursor++
	return clone(s.entries[s.cursor]), true
}

// Current returns the snapshot at the cursor.
func (s *Stack) Current() []byte {
	return clone(s.entries[s.cursor])
}

// Len returns the number of retained snapshots.
func (s *Stack) Len() int { return len(s.entries) }

// Cursor returns the index of the current snapshot.
func (s *Stack) Cursor() int { return s.cursor }

// Limit returns the retention limit.
func (s *Stack) Limit() int { return s.limit }

func (s *Stack) CanUndo() bool { return s.cursor > 0 }

func (s *Stack) CanRedo() bool { return s.cursor < len(s.entries)-1 }

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
