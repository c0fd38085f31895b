package fishing

import (
	"strings"
	"time"
)

type Fish struct {
	Name      string
	Level     int
	CastTime  time.Duration
	BaseRate  int // percent chance per cast at the required level
	XPPerFish int
}

var table = []Fish{
	{Name: "shrimps", Level: 1, CastTime: 3 * time.Second, BaseRate: 60, XPPerFish: 10},
	{Name: "sardine", Level: 5, CastTime: 4 * time.Second, BaseRate: 55, XPPerFish: 20},
	{Name: "trout", Level: 20, CastTime: 5 * time.Second, BaseRate: 50, XPPerFish: 50},
	{Name: "lobster", Level: 40, CastTime: 6 * time.Second, BaseRate: 40, XPPerFish: 90},
	{Name: "shark", Level: 76, CastTime: 8 * time.Second, BaseRate: 25, XPPerFish: 110},
}

func Lookup(name string) (Fish, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range table {
		if f.Name == name {
			return f, true
		}
	}
	return Fish{}, false
}

func Names() []string {
	out := make([]string, 0, len(table))
	for _, f := range table {
		out = append(out, f.Name)
	}
	return out
}

type rand interface {
	RandInt(min, max int) int
}

// CatchChance is the per-cast success percentage for a given skill level
// and equipment bonus, clamped to [5, 95].
func CatchChance(f Fish, level, equipmentBonus int) int {
	chance := f.BaseRate + (level - f.Level) + equipmentBonus
	if chance < 5 {
		chance = 5
	}
	if chance > 95 {
		chance = 95
	}
	return chance
}

// MaxCasts caps the catch count by the trip duration: one cast per
// CastTime window, never fractional.
func MaxCasts(f Fish, duration time.Duration) int {
	if duration <= 0 || f.CastTime <= 0 {
		return 0
	}
	return int(duration / f.CastTime)
}

// CatchCount rolls each cast against the success chance. Deterministic
// for a fixed rand and never negative.
func CatchCount(f Fish, duration time.Duration, level, equipmentBonus int, rng rand) int {
	chance := CatchChance(f, level, equipmentBonus)
	caught := 0
	for i := 0; i < MaxCasts(f, duration); i++ {
		if rng.RandInt(1, 100) <= chance {
			caught++
		}
	}
	return caught
}

// TripDuration is the window needed to attempt quantity casts, capped at
// maxTrip.
func TripDuration(f Fish, quantity int, maxTrip time.Duration) time.Duration {
	if quantity <= 0 {
		return maxTrip
	}
	d := time.Duration(quantity) * f.CastTime
	if d > maxTrip {
		return maxTrip
	}
	return d
}
