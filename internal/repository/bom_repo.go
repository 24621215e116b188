package repository

import (
	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BOMRepository interface {
	FindByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.BillOfMaterials, error)
	Replace(tx *gorm.DB, productID uuid.UUID, lines []model.BillOfMaterials) error
}

type bomRepo struct{}

func NewBOMRepo() BOMRepository {
	return &bomRepo{}
}

func (r *bomRepo) FindByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.BillOfMaterials, error) {
	var lines []model.BillOfMaterials
	err := tx.Where("product_id = ?", productID).Order("component_id ASC").Find(&lines).Error
	return lines, err
}

// Replace swaps the whole recipe of a product: delete then insert.
func (r *bomRepo) Replace(tx *gorm.DB, productID uuid.UUID, lines []model.BillOfMaterials) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.BillOfMaterials{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = uuid.Nil
		lines[i].ProductID = productID
	}
	return tx.Omit("Component").Create(&lines).Error
}
