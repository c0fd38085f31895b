package ports

import (
	"context"

	"grindstone/internal/domain/minion"
)

// RandomnessProvider is the single source of randomness for resolvers,
// swappable for a deterministic stub in tests.
type RandomnessProvider interface {
	// RandInt returns a uniform integer in [min, max], inclusive.
	RandInt(min, max int) int
	// WeightedPick returns an index into weights, chosen proportionally.
	WeightedPick(weights []int) int
}

// StatsProvider supplies the environment snapshot resolvers read: the
// owner's skill levels and equipment bonuses at resolution time.
type StatsProvider interface {
	SnapshotForOwner(ctx context.Context, ownerID string) (minion.Stats, error)
}

type Report struct {
	OwnerID     string
	Text        string
	Attachments []string
}

// ReportSink delivers resolution reports back to the requester. Delivery
// failure never un-resolves an activity; callers ignore the error.
type ReportSink interface {
	Deliver(ctx context.Context, report Report) error
}
