package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a store, warehouse or online channel holding its own stock.
type Location struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address  string `gorm:"type:text" json:"address"`
	Notes    string `gorm:"type:text" json:"notes"`
	IsOnline bool   `gorm:"default:false" json:"is_online"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// LocationStock is the running quantity of one item at one location.
// Rows are created lazily on first mutation and never deleted.
type LocationStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_stock_item" json:"location_id"`
	ItemKind   ItemKind  `gorm:"type:varchar(20);not null;uniqueIndex:idx_location_stock_item" json:"item_kind"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_stock_item" json:"item_id"`
	CurrentQty int       `gorm:"not null;default:0" json:"current_qty"`
	MinQty     int       `gorm:"not null;default:0" json:"min_qty"`
	FullQty    int       `gorm:"not null;default:0" json:"full_qty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (LocationStock) TableName() string {
	return "location_stocks"
}

func (s *LocationStock) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
