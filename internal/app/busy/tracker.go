// Package busy holds the process-wide map of in-flight activities. An
// entry here is the sole authority for "this owner is occupied"; the
// tracker itself never reads the clock or touches storage.
package busy

import (
	"sync"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/minion"
)

type Tracker struct {
	mu      sync.RWMutex
	byOwner map[string]minion.Record
}

func NewTracker() *Tracker {
	return &Tracker{byOwner: make(map[string]minion.Record)}
}

func (t *Tracker) IsBusy(ownerID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byOwner[ownerID]
	return ok
}

func (t *Tracker) Peek(ownerID string) (minion.Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.byOwner[ownerID]
	return rec, ok
}

// Begin atomically inserts the record, failing with ErrAlreadyBusy when
// an entry already exists.
func (t *Tracker) Begin(ownerID string, record minion.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byOwner[ownerID]; ok {
		return ports.ErrAlreadyBusy
	}
	t.byOwner[ownerID] = record
	return nil
}

// End removes and returns the tracked record.
func (t *Tracker) End(ownerID string) (minion.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.byOwner[ownerID]
	if !ok {
		return minion.Record{}, ports.ErrNotBusy
	}
	delete(t.byOwner, ownerID)
	return rec, nil
}
