package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	POCreated   PurchaseOrderStatus = "Created"
	POOrdered   PurchaseOrderStatus = "Ordered"
	POShipped   PurchaseOrderStatus = "Shipped"
	POReceived  PurchaseOrderStatus = "Received"
	POCompleted PurchaseOrderStatus = "Completed"
	POCancelled PurchaseOrderStatus = "Cancelled"
)

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case POCreated, POOrdered, POShipped, POReceived, POCompleted, POCancelled:
		return true
	}
	return false
}

type PurchaseOrder struct {
	BaseModel
	PONumber        string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"po_number"`
	PODate          time.Time           `gorm:"not null" json:"po_date"`
	Status          PurchaseOrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	SupplierName    string              `gorm:"type:varchar(255)" json:"supplier_name"`
	SupplierContact string              `gorm:"type:varchar(255)" json:"supplier_contact"`
	ExpectedDate    *time.Time          `json:"expected_date,omitempty"`
	ActualDate      *time.Time          `json:"actual_date,omitempty"`
	Notes           string              `gorm:"type:text" json:"notes"`
	Items           []PurchaseOrderItem `gorm:"foreignKey:POID" json:"items,omitempty"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

type PurchaseOrderItem struct {
	BaseModel
	POID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"po_id"`
	ItemKind    ItemKind        `gorm:"type:varchar(20);not null" json:"item_kind"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null" json:"item_id"`
	LocationID  uuid.UUID       `gorm:"type:uuid;not null" json:"location_id"`
	QtyOrdered  int             `gorm:"not null" json:"qty_ordered"`
	QtyReceived int             `gorm:"not null;default:0" json:"qty_received"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	Notes       string          `gorm:"type:text" json:"notes"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

func (i PurchaseOrderItem) Item() ItemRef {
	return ItemRef{Kind: i.ItemKind, ID: i.ItemID}
}

// FullyReceived reports whether the line has received at least what was ordered.
func (i PurchaseOrderItem) FullyReceived() bool {
	return i.QtyReceived >= i.QtyOrdered
}
