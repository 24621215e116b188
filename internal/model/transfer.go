package model

import (
	"time"

	"github.com/google/uuid"
)

type TransferStatus string

const (
	TransferCreated   TransferStatus = "Created"
	TransferInTransit TransferStatus = "InTransit"
	TransferDelivered TransferStatus = "Delivered"
	TransferCompleted TransferStatus = "Completed"
	TransferCancelled TransferStatus = "Cancelled"
)

var TransferStatuses = []TransferStatus{
	TransferCreated, TransferInTransit, TransferDelivered, TransferCompleted, TransferCancelled,
}

func (s TransferStatus) Valid() bool {
	for _, known := range TransferStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// BulkTransferOrder moves several items between two locations.
// Stock only changes when the order reaches Completed.
type BulkTransferOrder struct {
	BaseModel
	TransferNumber string             `gorm:"type:varchar(50);uniqueIndex;not null" json:"transfer_number"`
	FromLocationID uuid.UUID          `gorm:"type:uuid;not null;index" json:"from_location_id"`
	ToLocationID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"to_location_id"`
	Status         TransferStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	ShippedAt      *time.Time         `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time         `json:"delivered_at,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	Notes          string             `gorm:"type:text" json:"notes"`
	Tracking       string             `gorm:"type:varchar(100)" json:"tracking"`
	Items          []BulkTransferItem `gorm:"foreignKey:TransferID" json:"items,omitempty"`

	FromLocation *Location `gorm:"foreignKey:FromLocationID" json:"from_location,omitempty"`
	ToLocation   *Location `gorm:"foreignKey:ToLocationID" json:"to_location,omitempty"`
}

func (BulkTransferOrder) TableName() string {
	return "bulk_transfer_orders"
}

type BulkTransferItem struct {
	BaseModel
	TransferID             uuid.UUID `gorm:"type:uuid;not null;index" json:"transfer_id"`
	ItemKind               ItemKind  `gorm:"type:varchar(20);not null" json:"item_kind"`
	ItemID                 uuid.UUID `gorm:"type:uuid;not null" json:"item_id"`
	NameSnapshot           string    `gorm:"type:varchar(255)" json:"name_snapshot"`
	SKUSnapshot            string    `gorm:"type:varchar(50)" json:"sku_snapshot"`
	Quantity               int       `gorm:"not null" json:"quantity"`
	AvailableStockSnapshot int       `gorm:"not null;default:0" json:"available_stock_snapshot"`
	Notes                  string    `gorm:"type:text" json:"notes"`
}

func (BulkTransferItem) TableName() string {
	return "bulk_transfer_items"
}

func (i BulkTransferItem) Item() ItemRef {
	return ItemRef{Kind: i.ItemKind, ID: i.ItemID}
}
