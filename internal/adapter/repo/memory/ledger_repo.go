package memory

import (
	"context"
	"time"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/minion"
)

type LedgerRepo struct {
	store *Store
	Now   func() time.Time
}

func NewLedgerRepo(store *Store) LedgerRepo {
	return LedgerRepo{store: store}
}

// ApplyDelta checks every debit and removal before mutating anything, so
// an insufficient balance applies nothing.
func (r LedgerRepo) ApplyDelta(ctx context.Context, ownerID string, delta minion.Delta) (ports.Receipt, error) {
	defer r.store.enter(ctx)()

	if r.store.coins[ownerID]+delta.Coins < 0 {
		return ports.Receipt{}, ports.ErrInsufficientFunds
	}
	for _, rm := range delta.Remove {
		if r.store.items[ownerID][rm.Item] < rm.Qty {
			return ports.Receipt{}, ports.ErrInsufficientFunds
		}
	}

	r.store.coins[ownerID] += delta.Coins
	if len(delta.Add) > 0 || len(delta.Remove) > 0 {
		if r.store.items[ownerID] == nil {
			r.store.items[ownerID] = make(map[string]int)
		}
		for _, add := range delta.Add {
			r.store.items[ownerID][add.Item] += add.Qty
		}
		for _, rm := range delta.Remove {
			r.store.items[ownerID][rm.Item] -= rm.Qty
		}
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	return ports.Receipt{
		OwnerID:   ownerID,
		Coins:     delta.Coins,
		Added:     delta.Add,
		Removed:   delta.Remove,
		AppliedAt: now,
	}, nil
}
