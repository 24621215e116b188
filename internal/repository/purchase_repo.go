package repository

import (
	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository interface {
	Create(tx *gorm.DB, po *model.PurchaseOrder) error
	AddItem(tx *gorm.DB, item *model.PurchaseOrderItem) error
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	IncrementReceived(tx *gorm.DB, itemID uuid.UUID, qty int, updatedBy string) error
	UpdateHeader(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type purchaseOrderRepo struct{}

func NewPurchaseOrderRepo() PurchaseOrderRepository {
	return &purchaseOrderRepo{}
}

func (r *purchaseOrderRepo) Create(tx *gorm.DB, po *model.PurchaseOrder) error {
	return tx.Omit(clause.Associations).Create(po).Error
}

func (r *purchaseOrderRepo) AddItem(tx *gorm.DB, item *model.PurchaseOrderItem) error {
	return tx.Create(item).Error
}

func (r *purchaseOrderRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&po, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&po, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("po_id = ?", id).Order("created_at ASC").Find(&po.Items).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

// IncrementReceived adds qty to qty_received relative to the stored value.
func (r *purchaseOrderRepo) IncrementReceived(tx *gorm.DB, itemID uuid.UUID, qty int, updatedBy string) error {
	return tx.Model(&model.PurchaseOrderItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"qty_received": gorm.Expr("qty_received + ?", qty),
		"updated_by":   updatedBy,
	}).Error
}

func (r *purchaseOrderRepo) UpdateHeader(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.PurchaseOrder{}).Where("id = ?", id).Updates(fields).Error
}
