package minion

import (
	"errors"
	"fmt"
)

var ErrInvalidDelta = errors.New("invalid ledger delta")

type ItemAmount struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// Delta is a resolver's economy output: coin movement plus item additions
// and removals, applied all-or-nothing by the ledger.
type Delta struct {
	Coins  int64        `json:"coins,omitempty"`
	Add    []ItemAmount `json:"add,omitempty"`
	Remove []ItemAmount `json:"remove,omitempty"`
}

func (d Delta) IsZero() bool {
	return d.Coins == 0 && len(d.Add) == 0 && len(d.Remove) == 0
}

// Validate rejects deltas no resolver may legally produce: zero or
// negative item quantities and unnamed items.
func (d Delta) Validate() error {
	for _, group := range [][]ItemAmount{d.Add, d.Remove} {
		for _, ia := range group {
			if ia.Item == "" {
				return fmt.Errorf("%w: unnamed item", ErrInvalidDelta)
			}
			if ia.Qty <= 0 {
				return fmt.Errorf("%w: %s qty %d", ErrInvalidDelta, ia.Item, ia.Qty)
			}
		}
	}
	return nil
}

func (d Delta) Merge(other Delta) Delta {
	out := Delta{Coins: d.Coins + other.Coins}
	out.Add = append(append([]ItemAmount{}, d.Add...), other.Add...)
	out.Remove = append(append([]ItemAmount{}, d.Remove...), other.Remove...)
	return out
}
