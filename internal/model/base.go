package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard Audit Trails
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"` // Soft Delete support

	// Audit User Tracking
	CreatedBy string `json:"created_by"`
	UpdatedBy string `json:"updated_by"`
	DeletedBy string `json:"deleted_by"`
}

// BeforeCreate assigns a fresh UUID unless the caller already chose one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// AutoMigrate creates or updates every table owned by the engine.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Component{},
		&Product{},
		&BillOfMaterials{},
		&Location{},
		&LocationStock{},
		&LedgerEntry{},
		&BulkTransferOrder{},
		&BulkTransferItem{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
	)
}
