package favour

import "time"

// State is the persisted favour standing for one owner. A zero State is a
// valid baseline: zero percent, never updated.
type State struct {
	Percent   int       `json:"percent"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Config struct {
	GainPerTick int
	TickEvery   time.Duration
	Cap         int
}

func NewConfig(cfg Config) Config {
	if cfg.GainPerTick <= 0 {
		cfg.GainPerTick = 1
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = 20 * time.Minute
	}
	if cfg.Cap <= 0 {
		cfg.Cap = 100
	}
	return cfg
}

func DefaultConfig() Config {
	return NewConfig(Config{})
}

// Step advances prev to now. It takes absolute time rather than a tick
// count: UpdatedAt only moves by whole tick windows, so calling Step
// twice with the same now yields the same state as calling it once. A
// missing or future-dated prior state normalizes to a baseline at now.
func Step(prev State, now time.Time, cfg Config) State {
	cfg = NewConfig(cfg)
	if prev.UpdatedAt.IsZero() || prev.UpdatedAt.After(now) {
		return State{Percent: clamp(prev.Percent, cfg.Cap), UpdatedAt: now}
	}

	elapsed := now.Sub(prev.UpdatedAt)
	ticks := int64(elapsed / cfg.TickEvery)
	if ticks <= 0 {
		return State{Percent: clamp(prev.Percent, cfg.Cap), UpdatedAt: prev.UpdatedAt}
	}

	gained := ticks * int64(cfg.GainPerTick)
	percent := int64(prev.Percent) + gained
	if percent > int64(cfg.Cap) {
		percent = int64(cfg.Cap)
	}
	return State{
		Percent:   int(percent),
		UpdatedAt: prev.UpdatedAt.Add(time.Duration(ticks) * cfg.TickEvery),
	}
}

func clamp(percent, cap int) int {
	if percent < 0 {
		return 0
	}
	if percent > cap {
		return cap
	}
	return percent
}
