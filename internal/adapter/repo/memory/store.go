// Package memory backs the repository ports with in-process maps, for
// tests and for running the server without postgres.
package memory

import (
	"context"
	"sync"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
	"grindstone/internal/domain/minion"
)

type txKeyType struct{}

var txKey = txKeyType{}

type Store struct {
	mu         sync.Mutex
	unresolved map[string]minion.Record
	archive    []minion.Record
	coins      map[string]int64
	items      map[string]map[string]int
	favour     map[string]favour.State
	gambles    map[string]ports.GambleSessionRecord
}

func NewStore() *Store {
	return &Store{
		unresolved: make(map[string]minion.Record),
		coins:      make(map[string]int64),
		items:      make(map[string]map[string]int),
		favour:     make(map[string]favour.State),
		gambles:    make(map[string]ports.GambleSessionRecord),
	}
}

// enter takes the store lock unless the context already runs inside a
// transaction, which holds it for the whole callback.
func (s *Store) enter(ctx context.Context) func() {
	if ctx.Value(txKey) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) SeedCoins(ownerID string, coins int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coins[ownerID] = coins
}

func (s *Store) SeedItem(ownerID, item string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items[ownerID] == nil {
		s.items[ownerID] = make(map[string]int)
	}
	s.items[ownerID][item] = qty
}

func (s *Store) Coins(ownerID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coins[ownerID]
}

func (s *Store) ItemQty(ownerID, item string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[ownerID][item]
}

func (s *Store) ArchivedCount(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range s.archive {
		if rec.OwnerID == ownerID {
			n++
		}
	}
	return n
}
