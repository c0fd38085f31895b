package memory

import (
	"context"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
	"grindstone/internal/domain/minion"
)

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serializes callbacks on the store lock and restores the
// pre-transaction snapshot when the callback errors, so a failed ledger
// apply leaves every map untouched, matching the database adapter.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	unresolved map[string]minion.Record
	archive    []minion.Record
	coins      map[string]int64
	items      map[string]map[string]int
	favour     map[string]favour.State
	gambles    map[string]ports.GambleSessionRecord
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		unresolved: make(map[string]minion.Record, len(s.unresolved)),
		archive:    append([]minion.Record{}, s.archive...),
		coins:      make(map[string]int64, len(s.coins)),
		items:      make(map[string]map[string]int, len(s.items)),
		favour:     make(map[string]favour.State, len(s.favour)),
		gambles:    make(map[string]ports.GambleSessionRecord, len(s.gambles)),
	}
	for k, v := range s.unresolved {
		snap.unresolved[k] = v
	}
	for k, v := range s.coins {
		snap.coins[k] = v
	}
	for owner, inv := range s.items {
		cp := make(map[string]int, len(inv))
		for item, qty := range inv {
			cp[item] = qty
		}
		snap.items[owner] = cp
	}
	for k, v := range s.favour {
		snap.favour[k] = v
	}
	for k, v := range s.gambles {
		snap.gambles[k] = v
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.unresolved = snap.unresolved
	s.archive = snap.archive
	s.coins = snap.coins
	s.items = snap.items
	s.favour = snap.favour
	s.gambles = snap.gambles
}
