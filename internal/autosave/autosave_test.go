package autosave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/store"
)

type fakeSaver struct {
	mu      sync.Mutex
	saved   []string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSaver) SaveSession(_ context.Context, rec store.SessionRecord) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec.ID)
	return nil
}

func (f *fakeSaver) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.saved...)
}

func TestClose_DrainsPending(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, nil)

	s.Submit(store.SessionRecord{ID: "a"})
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, []string{"a"}, saver.ids())
}

func TestSubmit_LatestWins(t *testing.T) {
	saver := &fakeSaver{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := New(saver, nil)

	s.Submit(store.SessionRecord{ID: "first"})
	<-saver.started

	// The worker is busy; these collapse into the last one.
	s.Submit(store.SessionRecord{ID: "second"})
	s.Submit(store.SessionRecord{ID: "third"})
	s.Submit(store.SessionRecord{ID: "fourth"})

	go func() {
		for range saver.started {
		}
	}()
	close(saver.release)
	require.NoError(t, s.Close(context.Background()))
	close(saver.started)

	assert.Equal(t, []string{"first", "fourth"}, saver.ids())
}

func TestSubmit_NeverBlocks(t *testing.T) {
	saver := &fakeSaver{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := New(saver, nil)
	s.Submit(store.SessionRecord{ID: "busy"})
	<-saver.started

	done := make(chan struct{})
	go func() {
		for range 100 {
			s.Submit(store.SessionRecord{ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked while the worker was busy")
	}

	go func() {
		for range saver.started {
		}
	}()
	close(saver.release)
	require.NoError(t, s.Close(context.Background()))
	close(saver.started)
}

func TestFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	saver := &fakeSaver{err: errors.New("disk full")}

	s := New(saver, logger)
	s.Submit(store.SessionRecord{ID: "a"})
	require.NoError(t, s.Close(context.Background()))

	assert.Empty(t, saver.ids())
	assert.Contains(t, buf.String(), "autosave failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestErr_TracksLastSave(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	s := New(saver, nil)
	assert.NoError(t, s.Err())

	s.Submit(store.SessionRecord{ID: "a"})
	require.Eventually(t, func() bool { return s.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.ErrorContains(t, s.Err(), "disk full")

	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()
	s.Submit(store.SessionRecord{ID: "b"})
	require.NoError(t, s.Close(context.Background()))

	assert.NoError(t, s.Err())
	assert.Equal(t, []string{"b"}, saver.ids())
}

func TestClose_ContextDeadline(t *testing.T) {
	saver := &fakeSaver{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := New(saver, nil)
	s.Submit(store.SessionRecord{ID: "slow"})
	<-saver.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Close(ctx), context.DeadlineExceeded)

	close(saver.release)
	require.NoError(t, s.Close(context.Background()))
}

func TestSubmitAfterClose(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, nil)
	require.NoError(t, s.Close(context.Background()))

	s.Submit(store.SessionRecord{ID: "late"})
	assert.Empty(t, saver.ids())
}

func TestFromReport(t *testing.T) {
	snap := session.Snapshot{
		Descriptor: session.Descriptor{ID: "s-1", Date: "2024-03-09", Type: "practice", Level: "mixed"},
		Items:      []string{"A", "B", "C"},
		Records: []session.Record{
			{Item: "A", Status: session.StatusMastered, Attempts: 1},
			{Item: "B", Status: session.StatusNeedsWork, Attempts: 2},
			{Item: "C", Status: session.StatusNotPracticed},
		},
		State:      session.StateCompleted,
		DurationMs: 90_000,
	}
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	rec, err := FromReport(results.Aggregate(snap, nil), now)
	require.NoError(t, err)

	assert.Equal(t, "s-1", rec.ID)
	assert.Equal(t, now, rec.SavedAt)
	assert.Equal(t, "completed", rec.State)
	assert.True(t, rec.Completed())
	assert.Equal(t, 3, rec.TotalItems)
	assert.Equal(t, 1, rec.Mastered)
	assert.Equal(t, 1, rec.NeedsWork)
	assert.Equal(t, 1, rec.NotPracticed)
	assert.Equal(t, 3, rec.Attempts)
	assert.Equal(t, 50, rec.SuccessRate)
	assert.Equal(t, int64(90_000), rec.DurationMs)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Data, &doc))
	assert.Equal(t, "2024-03-09T12:00:00Z", doc["exportedAt"])
}
