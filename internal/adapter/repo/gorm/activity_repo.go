package gormrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"grindstone/internal/adapter/repo/gorm/model"
	"grindstone/internal/app/ports"
	"grindstone/internal/domain/minion"
)

type ActivityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return ActivityRepo{db: db}
}

func (r ActivityRepo) GetUnresolved(ctx context.Context, ownerID string) (minion.Record, error) {
	var m model.Activity
	err := getDBFromCtx(ctx, r.db).
		Where("owner_id = ? AND resolved = false", ownerID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return minion.Record{}, ports.ErrNotFound
		}
		return minion.Record{}, err
	}
	return toRecord(m), nil
}

func (r ActivityRepo) Create(ctx context.Context, record minion.Record) error {
	m := model.Activity{
		OwnerID:    record.OwnerID,
		Type:       string(record.Type),
		Payload:    record.Payload,
		StartedAt:  record.StartedAt,
		DurationMs: record.Duration.Milliseconds(),
		DueAt:      record.DueAt(),
	}
	// The partial unique index on unresolved owners backs the
	// one-unresolved-record-per-owner invariant.
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r ActivityRepo) MarkResolved(ctx context.Context, ownerID string, resolvedAt time.Time) error {
	res := getDBFromCtx(ctx, r.db).
		Model(&model.Activity{}).
		Where("owner_id = ? AND resolved = false", ownerID).
		Updates(map[string]any{"resolved": true, "resolved_at": resolvedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r ActivityRepo) DeleteUnresolved(ctx context.Context, ownerID string) error {
	res := getDBFromCtx(ctx, r.db).
		Where("owner_id = ? AND resolved = false", ownerID).
		Delete(&model.Activity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r ActivityRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]minion.Record, error) {
	var rows []model.Activity
	q := getDBFromCtx(ctx, r.db).
		Where("resolved = false AND due_at <= ?", now).
		Order("due_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]minion.Record, 0, len(rows))
	for _, m := range rows {
		out = append(out, toRecord(m))
	}
	return out, nil
}

func toRecord(m model.Activity) minion.Record {
	return minion.Record{
		OwnerID:   m.OwnerID,
		Type:      minion.ActivityType(m.Type),
		Payload:   m.Payload,
		StartedAt: m.StartedAt,
		Duration:  time.Duration(m.DurationMs) * time.Millisecond,
		Resolved:  m.Resolved,
	}
}
