package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
)

const favourTripDuration = 5 * time.Minute

type FavourPayload struct {
	House string `json:"house,omitempty"`
}

func validateFavourPayload(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var p FavourPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func favourDuration(_ []byte, maxTrip time.Duration) time.Duration {
	if favourTripDuration > maxTrip {
		return maxTrip
	}
	return favourTripDuration
}

type favourResolver struct{ BaseResolver }

func (favourResolver) Prepare(ctx context.Context, uc *UseCase, rc *ResolveContext) error {
	state, err := uc.FavourRepo.Get(ctx, rc.Record.OwnerID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			rc.PriorFavour = favour.State{}
			return nil
		}
		return err
	}
	rc.PriorFavour = state
	return nil
}

func (favourResolver) Resolve(uc *UseCase, rc *ResolveContext) (Resolution, error) {
	next := favour.Step(rc.PriorFavour, rc.Now, uc.FavourCfg)
	return Resolution{
		Report:      fmt.Sprintf("%s finished a favour errand; standing is now %d%%.", rc.Record.OwnerID, next.Percent),
		FavourState: &next,
	}, nil
}
