package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grindstone/internal/adapter/repo/gorm/model"
	"grindstone/internal/app/ports"
	"grindstone/internal/domain/minion"
)

type LedgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepo {
	return LedgerRepo{db: db}
}

// ApplyDelta applies the whole delta inside the caller's transaction.
// Debits and removals are guarded by conditional updates; a zero
// rows-affected means the balance no longer covers the delta and the
// surrounding transaction rolls the partial work back.
func (r LedgerRepo) ApplyDelta(ctx context.Context, ownerID string, delta minion.Delta) (ports.Receipt, error) {
	db := getDBFromCtx(ctx, r.db)
	now := time.Now()

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.LedgerAccount{OwnerID: ownerID, UpdatedAt: now}).Error; err != nil {
		return ports.Receipt{}, err
	}

	if delta.Coins != 0 {
		res := db.Model(&model.LedgerAccount{}).
			Where("owner_id = ? AND coins + ? >= 0", ownerID, delta.Coins).
			Updates(map[string]any{
				"coins":      gorm.Expr("coins + ?", delta.Coins),
				"updated_at": now,
			})
		if res.Error != nil {
			return ports.Receipt{}, res.Error
		}
		if res.RowsAffected == 0 {
			return ports.Receipt{}, ports.ErrInsufficientFunds
		}
	}

	for _, rm := range delta.Remove {
		res := db.Model(&model.LedgerItem{}).
			Where("owner_id = ? AND item = ? AND qty >= ?", ownerID, rm.Item, rm.Qty).
			Update("qty", gorm.Expr("qty - ?", rm.Qty))
		if res.Error != nil {
			return ports.Receipt{}, res.Error
		}
		if res.RowsAffected == 0 {
			return ports.Receipt{}, ports.ErrInsufficientFunds
		}
	}

	for _, add := range delta.Add {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "item"}},
			DoUpdates: clause.Assignments(map[string]any{"qty": gorm.Expr("ledger_items.qty + ?", add.Qty)}),
		}).Create(&model.LedgerItem{OwnerID: ownerID, Item: add.Item, Qty: add.Qty}).Error
		if err != nil {
			return ports.Receipt{}, err
		}
	}

	return ports.Receipt{
		OwnerID:   ownerID,
		Coins:     delta.Coins,
		Added:     delta.Add,
		Removed:   delta.Remove,
		AppliedAt: now,
	}, nil
}
