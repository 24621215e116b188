package repository

import (
	"errors"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	Find(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef) (*model.LocationStock, error)
	FindByLocation(tx *gorm.DB, locationID uuid.UUID) ([]model.LocationStock, error)
	FindByKind(tx *gorm.DB, kind model.ItemKind) ([]model.LocationStock, error)
	ApplyDelta(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, delta int) error
	SetMinimum(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, qty int) error
	SetFull(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, qty int) error
}

type stockRepo struct{}

func NewStockRepo() StockRepository {
	return &stockRepo{}
}

var locationStockKey = []clause.Column{{Name: "location_id"}, {Name: "item_kind"}, {Name: "item_id"}}

// Find returns nil without error when the row has not been created yet.
func (r *stockRepo) Find(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef) (*model.LocationStock, error) {
	var stock model.LocationStock
	err := tx.Where("location_id = ? AND item_kind = ? AND item_id = ?", locationID, ref.Kind, ref.ID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepo) FindByLocation(tx *gorm.DB, locationID uuid.UUID) ([]model.LocationStock, error) {
	var rows []model.LocationStock
	err := tx.Where("location_id = ?", locationID).Order("item_kind ASC, item_id ASC").Find(&rows).Error
	return rows, err
}

func (r *stockRepo) FindByKind(tx *gorm.DB, kind model.ItemKind) ([]model.LocationStock, error) {
	var rows []model.LocationStock
	err := tx.Where("item_kind = ?", kind).Find(&rows).Error
	return rows, err
}

// ApplyDelta adds delta to current_qty in SQL, creating the row on first use.
// The relative update keeps concurrent writers from losing each other's deltas.
func (r *stockRepo) ApplyDelta(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, delta int) error {
	row := model.LocationStock{
		LocationID: locationID,
		ItemKind:   ref.Kind,
		ItemID:     ref.ID,
		CurrentQty: delta,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: locationStockKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"current_qty": gorm.Expr("location_stocks.current_qty + ?", delta),
			"updated_at":  tx.NowFunc(),
		}),
	}).Create(&row).Error
}

func (r *stockRepo) SetMinimum(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, qty int) error {
	return r.setThreshold(tx, locationID, ref, "min_qty", qty)
}

func (r *stockRepo) SetFull(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, qty int) error {
	return r.setThreshold(tx, locationID, ref, "full_qty", qty)
}

func (r *stockRepo) setThreshold(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, column string, qty int) error {
	row := model.LocationStock{
		LocationID: locationID,
		ItemKind:   ref.Kind,
		ItemID:     ref.ID,
	}
	switch column {
	case "min_qty":
		row.MinQty = qty
	case "full_qty":
		row.FullQty = qty
	}
	return tx.Clauses(clause.OnConflict{
		Columns: locationStockKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       qty,
			"updated_at": tx.NowFunc(),
		}),
	}).Create(&row).Error
}
