package repository

import (
	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransferRepository interface {
	Create(tx *gorm.DB, order *model.BulkTransferOrder) error
	AddItem(tx *gorm.DB, item *model.BulkTransferItem) error
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.BulkTransferOrder, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.BulkTransferOrder, error)
	FindAll(tx *gorm.DB, status model.TransferStatus) ([]model.BulkTransferOrder, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type transferRepo struct{}

func NewTransferRepo() TransferRepository {
	return &transferRepo{}
}

func (r *transferRepo) Create(tx *gorm.DB, order *model.BulkTransferOrder) error {
	return tx.Omit(clause.Associations).Create(order).Error
}

func (r *transferRepo) AddItem(tx *gorm.DB, item *model.BulkTransferItem) error {
	return tx.Create(item).Error
}

func (r *transferRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.BulkTransferOrder, error) {
	var order model.BulkTransferOrder
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("FromLocation").Preload("ToLocation").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUpdate locks the header row for the rest of tx.
func (r *transferRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.BulkTransferOrder, error) {
	var order model.BulkTransferOrder
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("transfer_id = ?", id).Order("created_at ASC").Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *transferRepo) FindAll(tx *gorm.DB, status model.TransferStatus) ([]model.BulkTransferOrder, error) {
	q := tx.Preload("Items")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []model.BulkTransferOrder
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *transferRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.BulkTransferOrder{}).Where("id = ?", id).Updates(fields).Error
}
