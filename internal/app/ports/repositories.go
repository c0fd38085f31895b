package ports

import (
	"context"
	"time"

	"grindstone/internal/domain/favour"
	"grindstone/internal/domain/minion"
)

// ActivityRepository persists dispatched trips. At most one unresolved
// record may exist per owner; Create reports ErrConflict when one does.
type ActivityRepository interface {
	GetUnresolved(ctx context.Context, ownerID string) (minion.Record, error)
	Create(ctx context.Context, record minion.Record) error
	// MarkResolved flips the unresolved record for ownerID to resolved.
	// Returns ErrConflict when no unresolved record matched, which is the
	// double-resolution guard under restarts.
	MarkResolved(ctx context.Context, ownerID string, resolvedAt time.Time) error
	DeleteUnresolved(ctx context.Context, ownerID string) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]minion.Record, error)
}

// Receipt describes a ledger delta that was applied in full.
type Receipt struct {
	OwnerID   string              `json:"owner_id"`
	Coins     int64               `json:"coins"`
	Added     []minion.ItemAmount `json:"added,omitempty"`
	Removed   []minion.ItemAmount `json:"removed,omitempty"`
	AppliedAt time.Time           `json:"applied_at"`
}

// Ledger applies a delta as a single atomic mutation. Sufficiency of
// removals and coin debits is checked at apply time; on shortfall it
// returns ErrInsufficientFunds and applies nothing.
type Ledger interface {
	ApplyDelta(ctx context.Context, ownerID string, delta minion.Delta) (Receipt, error)
}

type FavourStateRepository interface {
	Get(ctx context.Context, ownerID string) (favour.State, error)
	Save(ctx context.Context, ownerID string, state favour.State) error
}

type GambleSessionRecord struct {
	SessionID string
	OwnerID   string
	Phase     string
	Stake     int64
	State     []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}

type GambleSessionRepository interface {
	Get(ctx context.Context, sessionID string) (GambleSessionRecord, error)
	Save(ctx context.Context, record GambleSessionRecord) error
	Delete(ctx context.Context, sessionID string) error
}
