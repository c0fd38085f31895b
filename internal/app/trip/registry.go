package trip

import (
	"context"
	"time"

	"grindstone/internal/domain/minion"
)

// Resolver computes the outcome for one activity type. Prepare loads the
// environment snapshot the resolver declares (stats, prior state) inside
// the resolution transaction; Resolve is pure given that snapshot and the
// scheduler's RandomnessProvider.
type Resolver interface {
	Prepare(ctx context.Context, uc *UseCase, rc *ResolveContext) error
	Resolve(uc *UseCase, rc *ResolveContext) (Resolution, error)
}

type BaseResolver struct{}

func (BaseResolver) Prepare(context.Context, *UseCase, *ResolveContext) error { return nil }

type Spec struct {
	Type            minion.ActivityType
	Resolver        Resolver
	ValidatePayload func(payload []byte) error
	DurationFor     func(payload []byte, maxTrip time.Duration) time.Duration
}

func activityRegistry() map[minion.ActivityType]Spec {
	return map[minion.ActivityType]Spec{
		minion.ActivityFishing: {
			Type:            minion.ActivityFishing,
			Resolver:        fishingResolver{},
			ValidatePayload: validateFishingPayload,
			DurationFor:     fishingDuration,
		},
		minion.ActivityCrash: {
			Type:            minion.ActivityCrash,
			Resolver:        crashResolver{},
			ValidatePayload: validateCrashPayload,
			DurationFor:     crashDuration,
		},
		minion.ActivityFavour: {
			Type:            minion.ActivityFavour,
			Resolver:        favourResolver{},
			ValidatePayload: validateFavourPayload,
			DurationFor:     favourDuration,
		},
	}
}

func SupportedActivityTypes() []minion.ActivityType {
	return []minion.ActivityType{
		minion.ActivityFishing,
		minion.ActivityCrash,
		minion.ActivityFavour,
	}
}
