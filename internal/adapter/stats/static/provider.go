// Package static serves fixed per-owner stats. A live deployment would
// replace this with the real character store; the engine only needs the
// snapshot contract.
package static

import (
	"context"
	"sync"

	"grindstone/internal/domain/minion"
)

type Provider struct {
	Default minion.Stats

	mu      sync.RWMutex
	byOwner map[string]minion.Stats
}

func NewProvider(defaults minion.Stats) *Provider {
	return &Provider{Default: defaults, byOwner: make(map[string]minion.Stats)}
}

func (p *Provider) SetOwner(ownerID string, stats minion.Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.byOwner == nil {
		p.byOwner = make(map[string]minion.Stats)
	}
	p.byOwner[ownerID] = stats
}

func (p *Provider) SnapshotForOwner(_ context.Context, ownerID string) (minion.Stats, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if stats, ok := p.byOwner[ownerID]; ok {
		return stats, nil
	}
	return p.Default, nil
}
