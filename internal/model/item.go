package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemKind discriminates raw components from composite products.
type ItemKind string

const (
	ItemKindComponent ItemKind = "Component"
	ItemKindProduct   ItemKind = "Product"
)

func (k ItemKind) Valid() bool {
	return k == ItemKindComponent || k == ItemKindProduct
}

func (k ItemKind) String() string {
	return string(k)
}

// ItemRef identifies a catalog entry of either kind.
type ItemRef struct {
	Kind ItemKind  `json:"item_kind" validate:"required,item_kind"`
	ID   uuid.UUID `json:"item_id" validate:"uuid_required"`
}

func ComponentRef(id uuid.UUID) ItemRef {
	return ItemRef{Kind: ItemKindComponent, ID: id}
}

func ProductRef(id uuid.UUID) ItemRef {
	return ItemRef{Kind: ItemKindProduct, ID: id}
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Item is the shape shared by components and products.
type Item struct {
	BaseModel
	SKU         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
}

// Component is raw, directly stocked inventory.
type Component struct {
	Item
}

func (Component) TableName() string {
	return "components"
}

// Product is assembled from components. It has no stock column: its stock
// is always derived from the bill of materials.
type Product struct {
	Item
	BillOfMaterials []BillOfMaterials `gorm:"foreignKey:ProductID" json:"bill_of_materials,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// BillOfMaterials is one line of a product recipe.
type BillOfMaterials struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_bom_product_component" json:"product_id"`
	ComponentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_bom_product_component" json:"component_id" validate:"uuid_required"`
	Quantity    int        `gorm:"not null" json:"quantity" validate:"required,gte=1"`
	Component   *Component `gorm:"foreignKey:ComponentID" json:"component,omitempty" validate:"-"`
}

func (BillOfMaterials) TableName() string {
	return "bill_of_materials"
}

func (b *BillOfMaterials) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
