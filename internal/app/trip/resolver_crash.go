package trip

import (
	"encoding/json"
	"fmt"
	"time"

	"grindstone/internal/domain/crash"
	"grindstone/internal/domain/minion"
)

// crashTripDuration is the fixed suspense window before a crash round
// resolves.
const crashTripDuration = 15 * time.Second

type CrashPayload struct {
	Stake int64  `json:"stake"`
	Auto  string `json:"auto"`
}

func parseCrashPayload(raw []byte) (CrashPayload, int, error) {
	var p CrashPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return CrashPayload{}, 0, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Stake <= 0 {
		return CrashPayload{}, 0, fmt.Errorf("%w: stake must be positive", ErrInvalidPayload)
	}
	auto, ok := crash.ParseAutoMultiplier(p.Auto)
	if !ok {
		return CrashPayload{}, 0, fmt.Errorf("%w: bad auto multiplier %q", ErrInvalidPayload, p.Auto)
	}
	if auto <= crash.Precision || auto > crash.DefaultTiers[len(crash.DefaultTiers)-1].Max {
		return CrashPayload{}, 0, fmt.Errorf("%w: auto multiplier %s out of range", ErrInvalidPayload, formatMultiplier(auto))
	}
	return p, auto, nil
}

func validateCrashPayload(raw []byte) error {
	_, _, err := parseCrashPayload(raw)
	return err
}

func crashDuration(_ []byte, maxTrip time.Duration) time.Duration {
	if crashTripDuration > maxTrip {
		return maxTrip
	}
	return crashTripDuration
}

func formatMultiplier(hundredths int) string {
	return fmt.Sprintf("%d.%02dx", hundredths/crash.Precision, hundredths%crash.Precision)
}

type crashResolver struct{ BaseResolver }

func (crashResolver) Resolve(uc *UseCase, rc *ResolveContext) (Resolution, error) {
	p, auto, err := parseCrashPayload(rc.Record.Payload)
	if err != nil {
		return Resolution{}, err
	}

	point := crash.CrashPoint(crash.DefaultTiers, uc.RNG)
	if point >= auto {
		winnings := p.Stake * int64(auto-crash.Precision) / crash.Precision
		return Resolution{
			Delta: minion.Delta{Coins: winnings},
			Report: fmt.Sprintf("%s cashed out at %s before the crash at %s, winning %d coins.",
				rc.Record.OwnerID, formatMultiplier(auto), formatMultiplier(point), winnings),
		}, nil
	}
	return Resolution{
		Delta: minion.Delta{Coins: -p.Stake},
		Report: fmt.Sprintf("The game crashed at %s before %s's auto cash-out at %s; %d coins lost.",
			formatMultiplier(point), rc.Record.OwnerID, formatMultiplier(auto), p.Stake),
	}, nil
}
