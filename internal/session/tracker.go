package session

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/inkdrill/internal/round"
)

// ErrNoItems is returned when a tracker is created without any usable items.
var ErrNoItems = errors.New("session has no items")

// Tracker owns the item list and per-item records of one practice session.
//
// All methods are safe for concurrent use; the scheduler's callbacks run on
// their own goroutines.
type Tracker struct {
	mu sync.Mutex

	desc   Descriptor
	cfg    Config
	now    func() time.Time
	sched  Scheduler
	log    *slog.Logger
	onTick func(time.Duration)

	items   []string
	records map[string]*Record
	current int
	state   State

	startedAt   time.Time
	completedAt *time.Time

	// activeSince marks the start of the running span while active.
	activeSince time.Time
	// activeMs is the session's flushed active time.
	activeMs int64

	tick     Task
	accum    Task
	disposed bool
}

// NewTracker creates an active session over items. Blank and duplicate
// items are dropped; ErrNoItems is returned when none remain.
func NewTracker(items []string, desc Descriptor, cfg Config, opts Options) (*Tracker, error) {
	opts = opts.withDefaults()

	list := normalizeItems(items)
	if len(list) == 0 {
		return nil, ErrNoItems
	}
	if cfg.Shuffle {
		shuffle(list, opts)
	}

	now := opts.Now()
	t := &Tracker{
		desc:      withDescriptorDefaults(desc, now),
		cfg:       cfg,
		now:       opts.Now,
		sched:     opts.Scheduler,
		log:       opts.Logger,
		onTick:    opts.OnTick,
		items:     list,
		records:   make(map[string]*Record, len(list)),
		state:     StateActive,
		startedAt: now,
	}
	t.log = t.log.With("session", t.desc.ID)

	for _, item := range list {
		t.records[item] = &Record{Item: item, Status: StatusNotPracticed}
	}

	first := t.records[list[0]]
	first.StartedAt = &now
	t.activeSince = now
	t.startTimers()

	t.log.Debug("session started", "items", len(list), "type", t.desc.Type, "level", t.desc.Level)
	return t, nil
}

func withDescriptorDefaults(d Descriptor, now time.Time) Descriptor {
	d.ID = strings.TrimSpace(d.ID)
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if strings.TrimSpace(d.Date) == "" {
		d.Date = now.Format(dateLayout)
	}
	if strings.TrimSpace(d.Type) == "" {
		d.Type = DefaultType
	}
	if strings.TrimSpace(d.Level) == "" {
		d.Level = DefaultLevel
	}
	return d
}

func shuffle(list []string, opts Options) {
	swap := func(i, j int) { list[i], list[j] = list[j], list[i] }
	if opts.Rand != nil {
		opts.Rand.Shuffle(len(list), swap)
		return
	}
	rand.Shuffle(len(list), swap)
}

// SelectItem makes the item at index current. It reports false, leaving
// the index unchanged, when index is out of range or the session is completed.
func (t *Tracker) SelectItem(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rejectCompleted("select") {
		return false
	}
	return t.selectLocked(index)
}

func (t *Tracker) selectLocked(index int) bool {
	if index < 0 || index >= len(t.items) {
		t.log.Debug("navigation out of range", "index", index, "len", len(t.items))
		return false
	}

	now := t.now()
	t.flushLocked(now)

	if index != t.current {
		prev := t.records[t.items[t.current]]
		ended := now
		prev.EndedAt = &ended
	}

	t.current = index
	rec := t.records[t.items[index]]
	if rec.StartedAt == nil {
		started := now
		rec.StartedAt = &started
	}
	t.activeSince = now
	return true
}

// SetStatus sets item's status, counts an attempt and appends note to the
// feedback log when non-empty. With AutoAdvance, marking an item mastered
// advances the session.
func (t *Tracker) SetStatus(item string, status Status, note string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rejectCompleted("set status") {
		return false
	}

	rec, ok := t.records[item]
	if !ok {
		t.log.Debug("status for unknown item", "item", item)
		return false
	}
	if !status.Valid() {
		t.log.Debug("invalid status", "item", item, "status", string(status))
		return false
	}

	note = strings.TrimSpace(note)
	repeated := rec.Status == status && rec.Attempts > 0
	if t.cfg.CountRepeatedStatus || !repeated || note != "" {
		rec.Attempts++
	}
	rec.Status = status

	if note != "" {
		rec.Feedback = append(rec.Feedback, Feedback{At: t.now(), Status: status, Note: note})
	}

	if t.cfg.AutoAdvance && status == StatusMastered {
		t.advanceLocked()
	}
	return true
}

// SetCurrentStatus sets the status of the current item.
func (t *Tracker) SetCurrentStatus(status Status, note string) bool {
	t.mu.Lock()
	item := t.items[t.current]
	t.mu.Unlock()
	return t.SetStatus(item, status, note)
}

// Advance moves to the next item. At the last item it completes the session.
func (t *Tracker) Advance() Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rejectCompleted("advance") {
		return StepBlocked
	}
	return t.advanceLocked()
}

func (t *Tracker) advanceLocked() Step {
	if t.current >= len(t.items)-1 {
		t.completeLocked()
		return StepCompleted
	}
	t.selectLocked(t.current + 1)
	return StepMoved
}

// Retreat moves to the previous item. It reports false at the first item.
func (t *Tracker) Retreat() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rejectCompleted("retreat") {
		return false
	}
	return t.selectLocked(t.current - 1)
}

// RecordStroke appends s to the current item's stroke log. A zero At is
// stamped with the current time.
func (t *Tracker) RecordStroke(s Stroke) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rejectCompleted("record stroke") {
		return
	}
	if s.At.IsZero() {
		s.At = t.now()
	}
	rec := t.records[t.items[t.current]]
	rec.Strokes = append(rec.Strokes, s)
}

// Pause stops the active-time clock and the periodic tasks.
func (t *Tracker) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateActive {
		if t.state == StateCompleted {
			t.rejectCompleted("pause")
		}
		return false
	}
	t.pauseLocked()
	return true
}

func (t *Tracker) pauseLocked() {
	now := t.now()
	t.flushLocked(now)
	ended := now
	t.records[t.items[t.current]].EndedAt = &ended
	t.stopTimers()
	t.state = StatePaused
}

// Resume restarts the clock for the current item after a Pause.
func (t *Tracker) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePaused {
		if t.state == StateCompleted {
			t.rejectCompleted("resume")
		}
		return false
	}
	t.state = StateActive
	t.activeSince = t.now()
	t.startTimers()
	return true
}

// Complete ends the session and returns its final snapshot. Completing an
// already completed session returns the same snapshot again.
func (t *Tracker) Complete() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateCompleted {
		t.log.Debug("complete called on completed session")
	} else {
		t.completeLocked()
	}
	return t.snapshotLocked()
}

func (t *Tracker) completeLocked() {
	if t.state == StateActive {
		t.pauseLocked()
	}
	now := t.now()
	t.completedAt = &now
	t.state = StateCompleted
	t.log.Info("session completed", "duration_ms", t.activeMs)
}

// Dispose stops every periodic task. The tracker may still be read afterwards.
func (t *Tracker) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateActive {
		t.flushLocked(t.now())
	}
	t.stopTimers()
	t.disposed = true
}

// Progress returns counts computed from the current records.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	statuses := make([]Status, len(t.items))
	for i, item := range t.items {
		statuses[i] = t.records[item].Status
	}
	return progressOf(statuses)
}

func progressOf(statuses []Status) Progress {
	p := Progress{Total: len(statuses)}
	for _, s := range statuses {
		switch s {
		case StatusMastered:
			p.Mastered++
		case StatusNeedsWork:
			p.NeedsWork++
		default:
			p.NotPracticed++
		}
	}
	p.Practiced = p.Mastered + p.NeedsWork
	p.PracticedPct = round.Percent(p.Practiced, p.Total)
	p.MasteredPct = round.Percent(p.Mastered, p.Total)
	return p
}

// Duration returns the session's active time, excluding pauses.
func (t *Tracker) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.durationMsLocked()) * time.Millisecond
}

func (t *Tracker) durationMsLocked() int64 {
	ms := t.activeMs
	if t.state == StateActive && !t.disposed {
		ms += t.now().Sub(t.activeSince).Milliseconds()
	}
	return ms
}

// State returns the session lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Descriptor returns the session labels with defaults applied.
func (t *Tracker) Descriptor() Descriptor {
	return t.desc
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Items returns the session's item order.
func (t *Tracker) Items() []string {
	out := make([]string, len(t.items))
	copy(out, t.items)
	return out
}

// Current returns the current index and item.
func (t *Tracker) Current() (int, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.items[t.current]
}

// Record returns a copy of item's record.
func (t *Tracker) Record(item string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[item]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Snapshot returns a deep copy of the session state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	now := t.now()
	s := Snapshot{
		Descriptor:   t.desc,
		Items:        make([]string, len(t.items)),
		Records:      make([]Record, len(t.items)),
		CurrentIndex: t.current,
		State:        t.state,
		StartedAt:    t.startedAt,
		CompletedAt:  cloneTime(t.completedAt),
		DurationMs:   t.durationMsLocked(),
		TakenAt:      now,
	}
	copy(s.Items, t.items)
	for i, item := range t.items {
		rec := t.records[item].clone()
		// Include the running span so readers see live time.
		if i == t.current && t.state == StateActive && !t.disposed {
			rec.TimeSpentMs += now.Sub(t.activeSince).Milliseconds()
		}
		s.Records[i] = rec
	}
	return s
}

// flushLocked moves the running span into the current record.
func (t *Tracker) flushLocked(now time.Time) {
	if t.state != StateActive || t.disposed {
		return
	}
	delta := now.Sub(t.activeSince).Milliseconds()
	if delta < 0 {
		delta = 0
	}
	t.records[t.items[t.current]].TimeSpentMs += delta
	t.activeMs += delta
	t.activeSince = t.activeSince.Add(time.Duration(delta) * time.Millisecond)
}

func (t *Tracker) rejectCompleted(op string) bool {
	if t.state != StateCompleted {
		return false
	}
	t.log.Warn("ignored mutation on completed session", "op", op)
	return true
}

func (t *Tracker) startTimers() {
	if t.disposed {
		return
	}
	if t.cfg.AccumulateInterval > 0 {
		t.accum = t.sched.Every(t.cfg.AccumulateInterval, t.accumulate)
	}
	if t.cfg.TickInterval > 0 && t.onTick != nil {
		t.tick = t.sched.Every(t.cfg.TickInterval, t.displayTick)
	}
}

func (t *Tracker) stopTimers() {
	if t.accum != nil {
		t.accum.Stop()
		t.accum = nil
	}
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
}

func (t *Tracker) accumulate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushLocked(t.now())
}

func (t *Tracker) displayTick() {
	t.mu.Lock()
	if t.state != StateActive || t.disposed {
		t.mu.Unlock()
		return
	}
	elapsed := time.Duration(t.durationMsLocked()) * time.Millisecond
	fn := t.onTick
	t.mu.Unlock()

	fn(elapsed)
}
