package service

import (
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockResolver reads component stock and derives product stock. It never
// writes and never clamps: negative component stock yields negative results.
type StockResolver struct {
	stockRepo repository.StockRepository
	bomRepo   repository.BOMRepository
}

func NewStockResolver(stockRepo repository.StockRepository, bomRepo repository.BOMRepository) *StockResolver {
	return &StockResolver{stockRepo: stockRepo, bomRepo: bomRepo}
}

func (r *StockResolver) ComponentStock(tx *gorm.DB, componentID, locationID uuid.UUID) (int, error) {
	row, err := r.stockRepo.Find(tx, locationID, model.ComponentRef(componentID))
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.CurrentQty, nil
}

// ProductStock is the number of units the bottleneck component allows.
// A product without a bill of materials has no stock.
func (r *StockResolver) ProductStock(tx *gorm.DB, productID, locationID uuid.UUID) (int, error) {
	lines, err := r.bomRepo.FindByProduct(tx, productID)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}

	producible := 0
	for i, line := range lines {
		if line.Quantity < 1 {
			return 0, fmt.Errorf("bill of materials line %s has quantity %d", line.ID, line.Quantity)
		}
		available, err := r.ComponentStock(tx, line.ComponentID, locationID)
		if err != nil {
			return 0, err
		}
		units := floorDiv(available, line.Quantity)
		if i == 0 || units < producible {
			producible = units
		}
	}
	return producible, nil
}

func (r *StockResolver) Stock(tx *gorm.DB, ref model.ItemRef, locationID uuid.UUID) (int, error) {
	switch ref.Kind {
	case model.ItemKindComponent:
		return r.ComponentStock(tx, ref.ID, locationID)
	case model.ItemKindProduct:
		return r.ProductStock(tx, ref.ID, locationID)
	}
	return 0, fmt.Errorf("%w: %q", repository.ErrUnknownItemKind, ref.Kind)
}

// floorDiv rounds toward negative infinity; b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
