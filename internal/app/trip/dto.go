package trip

import (
	"time"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
	"grindstone/internal/domain/minion"
)

type DispatchRequest struct {
	OwnerID string
	Type    minion.ActivityType
	Payload []byte
	// Duration overrides the per-type default when positive; it is always
	// clamped to the scheduler's max trip length.
	Duration time.Duration
}

type Outcome struct {
	OwnerID string              `json:"owner_id"`
	Type    minion.ActivityType `json:"type"`
	Report  string              `json:"report"`
	Delta   minion.Delta        `json:"delta"`
	Receipt ports.Receipt       `json:"receipt"`
	Chained *minion.Record      `json:"chained,omitempty"`
}

// ResolveContext carries the inputs a resolver reads: the record, the
// clock, and whatever environment its Prepare step loaded.
type ResolveContext struct {
	Record      minion.Record
	Now         time.Time
	Stats       minion.Stats
	PriorFavour favour.State
}

// Resolution is a resolver's full output. The scheduler applies Delta
// through the ledger, persists FavourState when set, emits Report, and
// starts Next in the same critical section when present.
type Resolution struct {
	Delta       minion.Delta
	Report      string
	Next        *DispatchRequest
	FavourState *favour.State
}
