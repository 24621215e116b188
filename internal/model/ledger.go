package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionKind string

const (
	TxSale       TransactionKind = "Sale"
	TxPurchase   TransactionKind = "Purchase"
	TxTransfer   TransactionKind = "Transfer"
	TxAdjustment TransactionKind = "Adjustment"
	TxReturn     TransactionKind = "Return"
	TxBreakDown  TransactionKind = "BreakDown"
	TxDamage     TransactionKind = "Damage"
	TxExpiry     TransactionKind = "Expiry"
)

var TransactionKinds = []TransactionKind{
	TxSale, TxPurchase, TxTransfer, TxAdjustment, TxReturn, TxBreakDown, TxDamage, TxExpiry,
}

func (k TransactionKind) Valid() bool {
	for _, known := range TransactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// LedgerEntry is an immutable stock event. For every (location, component)
// the sum of QtyDelta equals LocationStock.CurrentQty.
type LedgerEntry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	Kind       TransactionKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	ItemKind   ItemKind        `gorm:"type:varchar(20);not null;index:idx_ledger_item" json:"item_kind"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_item" json:"item_id"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"location_id"`
	QtyDelta   int             `gorm:"not null" json:"qty_delta"`
	Note       string          `gorm:"type:text" json:"note"`
	Reference  string          `gorm:"type:varchar(100);index" json:"reference"` // transfer number, PO number or transformation id
	TransferID *uuid.UUID      `gorm:"type:uuid;index" json:"transfer_id,omitempty"` // set only by transfer execution and reversal
	OccurredAt time.Time       `gorm:"not null;index" json:"occurred_at"`
	CreatedBy  string          `json:"created_by"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = tx.NowFunc()
	}
	return
}

// Item returns the reference of the item the entry moved.
func (e LedgerEntry) Item() ItemRef {
	return ItemRef{Kind: e.ItemKind, ID: e.ItemID}
}
