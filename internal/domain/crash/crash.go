package crash

import (
	"strconv"
	"strings"
)

// Precision is the fixed-point factor for multipliers: 100 means 1.00x,
// 225 means 2.25x.
const Precision = 100

type Tier struct {
	Weight int
	Min    int
	Max    int
}

// DefaultTiers partitions the total weight into ordered multiplier bands.
var DefaultTiers = []Tier{
	{Weight: 700, Min: 100, Max: 130},
	{Weight: 180, Min: 131, Max: 200},
	{Weight: 90, Min: 201, Max: 500},
	{Weight: 25, Min: 501, Max: 2000},
	{Weight: 5, Min: 2001, Max: 10000},
}

func TotalWeight(tiers []Tier) int {
	total := 0
	for _, t := range tiers {
		total += t.Weight
	}
	return total
}

type rand interface {
	RandInt(min, max int) int
}

// CrashPoint draws a tier by subtracting weights from a roll in
// [1, totalWeight], then draws the multiplier uniformly within the tier.
// A roll landing exactly on a cumulative boundary belongs to the earlier
// tier: the check is roll-minus-weight <= 0. The fallback keeps the
// result inside the full declared bounds.
func CrashPoint(tiers []Tier, rng rand) int {
	if len(tiers) == 0 {
		return Precision
	}
	roll := rng.RandInt(1, TotalWeight(tiers))
	for _, t := range tiers {
		roll -= t.Weight
		if roll <= 0 {
			return rng.RandInt(t.Min, t.Max)
		}
	}
	return rng.RandInt(tiers[0].Min, tiers[len(tiers)-1].Max)
}

// TierFor maps a raw roll to its tier index, using the same subtraction
// walk as CrashPoint. Returns -1 when roll is out of range.
func TierFor(tiers []Tier, roll int) int {
	if roll < 1 || roll > TotalWeight(tiers) {
		return -1
	}
	for i, t := range tiers {
		roll -= t.Weight
		if roll <= 0 {
			return i
		}
	}
	return -1
}

// ParseAutoMultiplier parses a player-supplied cash-out target such as
// "2", "2x" or "2.25x" into fixed-point hundredths. The boolean is false
// for anything that is not a positive multiplier.
func ParseAutoMultiplier(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "x")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(f*Precision + 0.5), true
}
