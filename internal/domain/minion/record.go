package minion

import "time"

type ActivityType string

const (
	ActivityFishing ActivityType = "fishing"
	ActivityCrash   ActivityType = "crash"
	ActivityFavour  ActivityType = "favour"
)

// Record is the persisted description of one dispatched activity. Payload
// is resolver-specific JSON and is immutable after dispatch.
type Record struct {
	OwnerID   string        `json:"owner_id"`
	Type      ActivityType  `json:"type"`
	Payload   []byte        `json:"payload,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Resolved  bool          `json:"resolved"`
}

func (r Record) DueAt() time.Time {
	return r.StartedAt.Add(r.Duration)
}

func (r Record) DueBy(now time.Time) bool {
	return !now.Before(r.DueAt())
}

// Stats is the environment snapshot resolvers read for an owner.
type Stats struct {
	FishingLevel   int `json:"fishing_level"`
	EquipmentBonus int `json:"equipment_bonus"`
}
