package session

import (
	"sync"
	"time"
)

// Task is a cancellable periodic task.
type Task interface {
	Stop()
}

// Scheduler starts periodic tasks.
type Scheduler interface {
	Every(d time.Duration, fn func()) Task
}

// TickerScheduler runs tasks on time.Ticker goroutines.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			fn()
		}
	}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// ManualScheduler is a Scheduler driven by explicit Fire calls. It is used
// by tests and by hosts that own their own event loop.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	period  time.Duration
	fn      func()
	stopped bool
	owner   *ManualScheduler
}

func (m *ManualScheduler) Every(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{period: d, fn: fn, owner: m}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Stop() {
	t.owner.mu.Lock()
	t.stopped = true
	t.owner.mu.Unlock()
}

// Fire runs every live task whose period equals d. A zero d fires all live tasks.
func (m *ManualScheduler) Fire(d time.Duration) int {
	m.mu.Lock()
	var due []func()
	for _, t := range m.tasks {
		if !t.stopped && (d == 0 || t.period == d) {
			due = append(due, t.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Live returns the number of tasks that have not been stopped.
func (m *ManualScheduler) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Started returns the total number of tasks ever started.
func (m *ManualScheduler) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
