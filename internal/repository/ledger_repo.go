package repository

import (
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerFilter narrows ListEntries. Zero values mean "any".
type LedgerFilter struct {
	LocationID uuid.UUID
	Item       *model.ItemRef
	Kind       model.TransactionKind
	Reference  string
	From       time.Time
	To         time.Time
	Limit      int
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// LedgerSum is the total of all deltas for one (location, item).
type LedgerSum struct {
	LocationID uuid.UUID
	ItemID     uuid.UUID
	Total      int
}

type LedgerRepository interface {
	Create(tx *gorm.DB, entry *model.LedgerEntry) error
	FindAll(tx *gorm.DB, filter LedgerFilter) ([]model.LedgerEntry, error)
	SumByLocationItem(tx *gorm.DB, kind model.ItemKind) ([]LedgerSum, error)
	SumByTransfer(tx *gorm.DB, transferID uuid.UUID) ([]LedgerSum, error)
	GetStockMovement(tx *gorm.DB, startDate, endDate time.Time) ([]StockMovementData, error)
}

type ledgerRepo struct{}

func NewLedgerRepo() LedgerRepository {
	return &ledgerRepo{}
}

func (r *ledgerRepo) Create(tx *gorm.DB, entry *model.LedgerEntry) error {
	return tx.Create(entry).Error
}

func (r *ledgerRepo) FindAll(tx *gorm.DB, filter LedgerFilter) ([]model.LedgerEntry, error) {
	q := tx.Model(&model.LedgerEntry{})
	if filter.LocationID != uuid.Nil {
		q = q.Where("location_id = ?", filter.LocationID)
	}
	if filter.Item != nil {
		q = q.Where("item_kind = ? AND item_id = ?", filter.Item.Kind, filter.Item.ID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.Reference != "" {
		q = q.Where("reference = ?", filter.Reference)
	}
	if !filter.From.IsZero() {
		q = q.Where("occurred_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("occurred_at <= ?", filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var entries []model.LedgerEntry
	err := q.Order("occurred_at ASC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) SumByLocationItem(tx *gorm.DB, kind model.ItemKind) ([]LedgerSum, error) {
	var sums []LedgerSum
	err := tx.Model(&model.LedgerEntry{}).
		Select("location_id, item_id, COALESCE(SUM(qty_delta), 0) AS total").
		Where("item_kind = ?", kind).
		Group("location_id, item_id").
		Scan(&sums).Error
	return sums, err
}

// SumByTransfer nets the component rows one transfer has posted so far.
func (r *ledgerRepo) SumByTransfer(tx *gorm.DB, transferID uuid.UUID) ([]LedgerSum, error) {
	var sums []LedgerSum
	err := tx.Model(&model.LedgerEntry{}).
		Select("location_id, item_id, COALESCE(SUM(qty_delta), 0) AS total").
		Where("transfer_id = ? AND item_kind = ?", transferID, model.ItemKindComponent).
		Group("location_id, item_id").
		Order("location_id ASC, item_id ASC").
		Scan(&sums).Error
	return sums, err
}

func (r *ledgerRepo) GetStockMovement(tx *gorm.DB, startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Aggregate component movements per day
	rows, err := tx.Model(&model.LedgerEntry{}).
		Select(`
			DATE(occurred_at) as date,
			COALESCE(SUM(CASE WHEN qty_delta > 0 THEN qty_delta ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN qty_delta < 0 THEN -qty_delta ELSE 0 END), 0) as outbound
		`).
		Where("item_kind = ? AND occurred_at BETWEEN ? AND ?", model.ItemKindComponent, startDate, endDate).
		Group("DATE(occurred_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}
