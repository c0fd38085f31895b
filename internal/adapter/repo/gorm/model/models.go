// Package model holds the persistence rows for the gorm repositories.
package model

import "time"

type Activity struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	OwnerID    string     `gorm:"size:64;not null;index"`
	Type       string     `gorm:"size:32;not null"`
	Payload    []byte     `gorm:"type:jsonb"`
	StartedAt  time.Time  `gorm:"not null"`
	DurationMs int64      `gorm:"not null"`
	DueAt      time.Time  `gorm:"not null;index"`
	Resolved   bool       `gorm:"not null;default:false"`
	ResolvedAt *time.Time
}

func (Activity) TableName() string { return "activities" }

type LedgerAccount struct {
	OwnerID   string    `gorm:"primaryKey;size:64"`
	Coins     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (LedgerAccount) TableName() string { return "ledger_accounts" }

type LedgerItem struct {
	OwnerID string `gorm:"primaryKey;size:64"`
	Item    string `gorm:"primaryKey;size:64"`
	Qty     int    `gorm:"not null;default:0"`
}

func (LedgerItem) TableName() string { return "ledger_items" }

type FavourState struct {
	OwnerID   string    `gorm:"primaryKey;size:64"`
	Percent   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (FavourState) TableName() string { return "favour_states" }

type GambleSession struct {
	SessionID string    `gorm:"primaryKey;size:64"`
	OwnerID   string    `gorm:"size:64;not null;index"`
	Phase     string    `gorm:"size:16;not null"`
	Stake     int64     `gorm:"not null"`
	State     []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (GambleSession) TableName() string { return "gamble_sessions" }
