package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grindstone/internal/adapter/repo/gorm/model"
	"grindstone/internal/app/ports"
)

type GambleSessionRepo struct {
	db *gorm.DB
}

func NewGambleSessionRepo(db *gorm.DB) GambleSessionRepo {
	return GambleSessionRepo{db: db}
}

func (r GambleSessionRepo) Get(ctx context.Context, sessionID string) (ports.GambleSessionRecord, error) {
	var m model.GambleSession
	if err := getDBFromCtx(ctx, r.db).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.GambleSessionRecord{}, ports.ErrNotFound
		}
		return ports.GambleSessionRecord{}, err
	}
	return ports.GambleSessionRecord{
		SessionID: m.SessionID,
		OwnerID:   m.OwnerID,
		Phase:     m.Phase,
		Stake:     m.Stake,
		State:     m.State,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}, nil
}

func (r GambleSessionRepo) Save(ctx context.Context, record ports.GambleSessionRecord) error {
	m := model.GambleSession{
		SessionID: record.SessionID,
		OwnerID:   record.OwnerID,
		Phase:     record.Phase,
		Stake:     record.Stake,
		State:     record.State,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phase", "state", "expires_at"}),
	}).Create(&m).Error
}

func (r GambleSessionRepo) Delete(ctx context.Context, sessionID string) error {
	return getDBFromCtx(ctx, r.db).Where("session_id = ?", sessionID).Delete(&model.GambleSession{}).Error
}
