package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"grindstone/internal/app/busy"
	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
	"grindstone/internal/domain/minion"
)

var ErrInvalidRequest = errors.New("invalid status request")

type Request struct {
	OwnerID string
}

type Response struct {
	OwnerID          string              `json:"owner_id"`
	Busy             bool                `json:"busy"`
	ActivityType     minion.ActivityType `json:"activity_type,omitempty"`
	RemainingSeconds int                 `json:"remaining_seconds,omitempty"`
	FavourPercent    int                 `json:"favour_percent"`
}

// UseCase reports an owner's current standing: whether the minion is out
// on a trip and the favour projected to now. The projection is
// read-only; only a favour trip persists the stepped state.
type UseCase struct {
	Activities ports.ActivityRepository
	FavourRepo ports.FavourStateRepository
	Busy       *busy.Tracker
	FavourCfg  favour.Config
	Now        func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	if req.OwnerID == "" {
		return Response{}, ErrInvalidRequest
	}
	now := time.Now()
	if u.Now != nil {
		now = u.Now()
	}

	out := Response{OwnerID: req.OwnerID}

	record, tracked := u.Busy.Peek(req.OwnerID)
	if !tracked {
		var err error
		record, err = u.Activities.GetUnresolved(ctx, req.OwnerID)
		tracked = err == nil
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return Response{}, err
		}
	}
	if tracked {
		out.Busy = true
		out.ActivityType = record.Type
		if remaining := record.DueAt().Sub(now); remaining > 0 {
			out.RemainingSeconds = int((remaining + time.Second - 1) / time.Second)
		}
	}

	prior, err := u.FavourRepo.Get(ctx, req.OwnerID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return Response{}, err
	}
	out.FavourPercent = favour.Step(prior, now, u.FavourCfg).Percent
	return out, nil
}
