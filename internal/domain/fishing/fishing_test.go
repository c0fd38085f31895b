package fishing

import (
	"testing"
	"time"
)

type scriptedRand struct {
	values []int
	next   int
}

func (r *scriptedRand) RandInt(min, max int) int {
	if r.next >= len(r.values) {
		return min
	}
	v := r.values[r.next]
	r.next++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	if _, ok := Lookup(" Shrimps "); !ok {
		t.Fatal("shrimps not found")
	}
	if _, ok := Lookup("kraken"); ok {
		t.Fatal("unknown fish found")
	}
}

func TestCatchChanceClamped(t *testing.T) {
	shark, _ := Lookup("shark")
	if got := CatchChance(shark, 1, 0); got != 5 {
		t.Fatalf("low-level chance = %d, want clamp to 5", got)
	}
	shrimps, _ := Lookup("shrimps")
	if got := CatchChance(shrimps, 99, 50); got != 95 {
		t.Fatalf("boosted chance = %d, want clamp to 95", got)
	}
}

func TestMaxCastsCapsByDuration(t *testing.T) {
	shrimps, _ := Lookup("shrimps")
	if got := MaxCasts(shrimps, 15*time.Second); got != 5 {
		t.Fatalf("casts = %d, want 5", got)
	}
	if got := MaxCasts(shrimps, 0); got != 0 {
		t.Fatalf("casts for zero duration = %d, want 0", got)
	}
}

func TestCatchCountDeterministicAndBounded(t *testing.T) {
	shrimps, _ := Lookup("shrimps")
	rng := &scriptedRand{values: []int{10, 90, 10, 90, 10}}
	// chance at level 1 with no bonus is 60: rolls 10,10,10 succeed.
	got := CatchCount(shrimps, 15*time.Second, 1, 0, rng)
	if got != 3 {
		t.Fatalf("catch = %d, want 3", got)
	}

	again := CatchCount(shrimps, 15*time.Second, 1, 0, &scriptedRand{values: []int{10, 90, 10, 90, 10}})
	if again != got {
		t.Fatalf("same seed produced %d then %d", got, again)
	}

	if c := CatchCount(shrimps, 15*time.Second, 1, 0, &scriptedRand{values: []int{100, 100, 100, 100, 100}}); c != 0 {
		t.Fatalf("all-miss catch = %d, want 0", c)
	}
}

func TestTripDuration(t *testing.T) {
	shrimps, _ := Lookup("shrimps")
	if d := TripDuration(shrimps, 4, time.Hour); d != 12*time.Second {
		t.Fatalf("duration = %v, want 12s", d)
	}
	if d := TripDuration(shrimps, 10000, 30*time.Second); d != 30*time.Second {
		t.Fatalf("duration = %v, want capped 30s", d)
	}
	if d := TripDuration(shrimps, 0, 30*time.Second); d != 30*time.Second {
		t.Fatalf("duration for zero quantity = %v, want max trip", d)
	}
}
