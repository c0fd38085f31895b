package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grindstone/internal/adapter/repo/gorm/model"
	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
)

type FavourStateRepo struct {
	db *gorm.DB
}

func NewFavourStateRepo(db *gorm.DB) FavourStateRepo {
	return FavourStateRepo{db: db}
}

func (r FavourStateRepo) Get(ctx context.Context, ownerID string) (favour.State, error) {
	var m model.FavourState
	if err := getDBFromCtx(ctx, r.db).Where("owner_id = ?", ownerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return favour.State{}, ports.ErrNotFound
		}
		return favour.State{}, err
	}
	return favour.State{Percent: m.Percent, UpdatedAt: m.UpdatedAt}, nil
}

func (r FavourStateRepo) Save(ctx context.Context, ownerID string, state favour.State) error {
	m := model.FavourState{OwnerID: ownerID, Percent: state.Percent, UpdatedAt: state.UpdatedAt}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"percent", "updated_at"}),
	}).Create(&m).Error
}
