package repository

import (
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUnknownItemKind = errors.New("unknown item kind")

// ItemSummary is the part of a catalog entry snapshotted onto documents.
type ItemSummary struct {
	Ref      model.ItemRef
	SKU      string
	Name     string
	IsActive bool
}

type ItemRepository interface {
	CreateComponent(component *model.Component) error
	CreateProduct(product *model.Product) error
	FindComponentByID(id uuid.UUID) (*model.Component, error)
	FindProductByID(id uuid.UUID) (*model.Product, error)
	FindAllComponents() ([]model.Component, error)
	FindAllProducts() ([]model.Product, error)
	SKUExists(kind model.ItemKind, sku string) (bool, error)
	FindSummary(tx *gorm.DB, ref model.ItemRef) (*ItemSummary, error)
	SetActive(ref model.ItemRef, active bool, updatedBy string) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) CreateComponent(component *model.Component) error {
	return r.db.Create(component).Error
}

func (r *itemRepo) CreateProduct(product *model.Product) error {
	return r.db.Omit("BillOfMaterials").Create(product).Error
}

func (r *itemRepo) FindComponentByID(id uuid.UUID) (*model.Component, error) {
	var component model.Component
	if err := r.db.First(&component, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *itemRepo) FindProductByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("BillOfMaterials.Component").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *itemRepo) FindAllComponents() ([]model.Component, error) {
	var components []model.Component
	err := r.db.Order("name ASC").Find(&components).Error
	return components, err
}

func (r *itemRepo) FindAllProducts() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("BillOfMaterials").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *itemRepo) SKUExists(kind model.ItemKind, sku string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	var count int64
	err = r.db.Table(table).Where("sku = ? AND deleted_at IS NULL", sku).Count(&count).Error
	return count > 0, err
}

// FindSummary runs on tx so it can take part in the caller's transaction.
func (r *itemRepo) FindSummary(tx *gorm.DB, ref model.ItemRef) (*ItemSummary, error) {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return nil, err
	}
	var row struct {
		SKU      string
		Name     string
		IsActive bool
	}
	res := tx.Table(table).Select("sku, name, is_active").
		Where("id = ? AND deleted_at IS NULL", ref.ID).
		Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &ItemSummary{Ref: ref, SKU: row.SKU, Name: row.Name, IsActive: row.IsActive}, nil
}

func (r *itemRepo) SetActive(ref model.ItemRef, active bool, updatedBy string) error {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return err
	}
	res := r.db.Table(table).Where("id = ? AND deleted_at IS NULL", ref.ID).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_by": updatedBy,
		"updated_at": r.db.NowFunc(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func tableFor(kind model.ItemKind) (string, error) {
	switch kind {
	case model.ItemKindComponent:
		return model.Component{}.TableName(), nil
	case model.ItemKindProduct:
		return model.Product{}.TableName(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownItemKind, kind)
}
