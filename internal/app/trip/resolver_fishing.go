package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"grindstone/internal/domain/fishing"
	"grindstone/internal/domain/minion"
)

type FishingPayload struct {
	Fish     string `json:"fish"`
	Quantity int    `json:"quantity,omitempty"`
	Repeat   bool   `json:"repeat,omitempty"`
}

func parseFishingPayload(raw []byte) (FishingPayload, fishing.Fish, error) {
	var p FishingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return FishingPayload{}, fishing.Fish{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	f, ok := fishing.Lookup(p.Fish)
	if !ok {
		return FishingPayload{}, fishing.Fish{}, fmt.Errorf("%w: unknown fish %q (try one of %s)",
			ErrInvalidPayload, p.Fish, strings.Join(fishing.Names(), ", "))
	}
	if p.Quantity < 0 {
		return FishingPayload{}, fishing.Fish{}, fmt.Errorf("%w: negative quantity", ErrInvalidPayload)
	}
	return p, f, nil
}

func validateFishingPayload(raw []byte) error {
	_, _, err := parseFishingPayload(raw)
	return err
}

func fishingDuration(raw []byte, maxTrip time.Duration) time.Duration {
	p, f, err := parseFishingPayload(raw)
	if err != nil {
		return 0
	}
	return fishing.TripDuration(f, p.Quantity, maxTrip)
}

type fishingResolver struct{ BaseResolver }

func (fishingResolver) Prepare(ctx context.Context, uc *UseCase, rc *ResolveContext) error {
	if uc.Stats == nil {
		return nil
	}
	stats, err := uc.Stats.SnapshotForOwner(ctx, rc.Record.OwnerID)
	if err != nil {
		return err
	}
	rc.Stats = stats
	return nil
}

func (fishingResolver) Resolve(uc *UseCase, rc *ResolveContext) (Resolution, error) {
	p, f, err := parseFishingPayload(rc.Record.Payload)
	if err != nil {
		return Resolution{}, err
	}

	caught := fishing.CatchCount(f, rc.Record.Duration, rc.Stats.FishingLevel, rc.Stats.EquipmentBonus, uc.RNG)
	xp := caught * f.XPPerFish

	res := Resolution{}
	if caught > 0 {
		res.Delta.Add = []minion.ItemAmount{{Item: f.Name, Qty: caught}}
		res.Report = fmt.Sprintf("%s returned from fishing: %d %s (%d xp).", rc.Record.OwnerID, caught, f.Name, xp)
	} else {
		res.Report = fmt.Sprintf("%s returned from fishing empty-handed.", rc.Record.OwnerID)
	}

	if p.Repeat {
		res.Next = &DispatchRequest{
			OwnerID:  rc.Record.OwnerID,
			Type:     minion.ActivityFishing,
			Payload:  rc.Record.Payload,
			Duration: rc.Record.Duration,
		}
	}
	return res, nil
}
