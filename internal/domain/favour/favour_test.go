package favour

import (
	"testing"
	"time"
)

var testCfg = Config{GainPerTick: 2, TickEvery: 10 * time.Minute, Cap: 100}

func TestStepNormalizesMissingState(t *testing.T) {
	now := time.Unix(1000, 0)
	got := Step(State{}, now, testCfg)
	if got.Percent != 0 || !got.UpdatedAt.Equal(now) {
		t.Fatalf("baseline = %+v", got)
	}
}

func TestStepAdvancesWholeTicks(t *testing.T) {
	start := time.Unix(0, 0)
	prev := State{Percent: 10, UpdatedAt: start}

	got := Step(prev, start.Add(25*time.Minute), testCfg)
	if got.Percent != 14 {
		t.Fatalf("percent = %d, want 14", got.Percent)
	}
	if !got.UpdatedAt.Equal(start.Add(20 * time.Minute)) {
		t.Fatalf("updatedAt = %v, want start+20m", got.UpdatedAt)
	}
}

func TestStepIdempotentAtFixedNow(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(47 * time.Minute)
	prev := State{Percent: 10, UpdatedAt: start}

	once := Step(prev, now, testCfg)
	twice := Step(once, now, testCfg)
	if twice != once {
		t.Fatalf("double step %+v != single step %+v", twice, once)
	}
}

func TestStepCapsAndIsMonotonic(t *testing.T) {
	start := time.Unix(0, 0)
	prev := State{Percent: 99, UpdatedAt: start}
	got := Step(prev, start.Add(24*time.Hour), testCfg)
	if got.Percent != 100 {
		t.Fatalf("percent = %d, want cap 100", got.Percent)
	}

	// A stale clock never regresses the state.
	back := Step(got, start, testCfg)
	if back.Percent < got.Percent {
		t.Fatalf("percent regressed from %d to %d", got.Percent, back.Percent)
	}
}
