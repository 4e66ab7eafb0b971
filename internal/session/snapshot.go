package session

import "time"

// Snapshot is an immutable copy of a tracker's state.
type Snapshot struct {
	Descriptor   Descriptor
	Items        []string
	Records      []Record // in item order
	CurrentIndex int
	State        State
	StartedAt    time.Time
	CompletedAt  *time.Time
	DurationMs   int64
	TakenAt      time.Time
}

// Record returns the record for item.
func (s Snapshot) Record(item string) (Record, bool) {
	for _, r := range s.Records {
		if r.Item == item {
			return r, true
		}
	}
	return Record{}, false
}

// Progress computes progress counts from the snapshot's records.
func (s Snapshot) Progress() Progress {
	statuses := make([]Status, len(s.Records))
	for i, r := range s.Records {
		statuses[i] = r.Status
	}
	return progressOf(statuses)
}

// CurrentItem returns the item at CurrentIndex.
func (s Snapshot) CurrentItem() string {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Items) {
		return ""
	}
	return s.Items[s.CurrentIndex]
}
