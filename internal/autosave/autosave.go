// Package autosave persists practice sessions in the background so the
// interactive path never waits on storage.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/inkdrill/internal/store"
)

// DefaultSaveTimeout bounds a single background write.
const DefaultSaveTimeout = 5 * time.Second

// Saver is the subset of the store used by the worker.
type Saver interface {
	SaveSession(ctx context.Context, rec store.SessionRecord) error
}

// Service saves submitted records on a single worker goroutine. Only the
// most recent unsaved record is kept.
type Service struct {
	saver   Saver
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending *store.SessionRecord
	closed  bool
	lastErr error

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New starts the worker. A nil logger discards output.
func New(saver Saver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		saver:   saver,
		logger:  logger,
		timeout: DefaultSaveTimeout,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// Submit queues rec for saving and returns immediately. A record still
// waiting from an earlier call is replaced.
func (s *Service) Submit(rec store.SessionRecord) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("autosave submit after close", "session", rec.ID)
		return
	}
	s.pending = &rec
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Err returns the error from the most recent save, or nil once a later
// save succeeds.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close saves any pending record and stops the worker. It returns the
// context error if ctx ends first.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.stop)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.stop:
			s.flush()
			return
		}
	}
}

func (s *Service) flush() {
	s.mu.Lock()
	rec := s.pending
	s.pending = nil
	s.mu.Unlock()
	if rec == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.saver.SaveSession(ctx, *rec)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("autosave failed", "session", rec.ID, "error", err)
		return
	}
	s.logger.Debug("session saved", "session", rec.ID, "state", rec.State)
}
