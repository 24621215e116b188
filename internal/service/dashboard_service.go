package service

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockItem is an item whose stock at a location is under its minimum.
type LowStockItem struct {
	LocationID uuid.UUID     `json:"location_id"`
	Item       model.ItemRef `json:"item"`
	CurrentQty int           `json:"current_qty"`
	MinQty     int           `json:"min_qty"`
	FullQty    int           `json:"full_qty"`
}

// DashboardStats is the overview across all locations.
type DashboardStats struct {
	TotalComponents int             `json:"total_components"`
	TotalProducts   int             `json:"total_products"`
	TotalLocations  int             `json:"total_locations"`
	LowStockCount   int             `json:"low_stock_count"`
	TotalValuation  decimal.Decimal `json:"total_valuation"`
}

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetLowStock(ctx context.Context, locationID uuid.UUID) ([]LowStockItem, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	resolver     *StockResolver
	stockRepo    repository.StockRepository
	ledgerRepo   repository.LedgerRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	db           *gorm.DB
}

func NewDashboardService(
	resolver *StockResolver,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
) DashboardService {
	return &dashboardService{
		resolver:     resolver,
		stockRepo:    stockRepo,
		ledgerRepo:   ledgerRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		db:           db,
	}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	return s.ledgerRepo.GetStockMovement(s.db.WithContext(ctx), startDate, endDate)
}

// GetLowStock lists items with a minimum set whose stock is below it.
// Product stock is derived, so only their threshold rows are read.
func (s *dashboardService) GetLowStock(ctx context.Context, locationID uuid.UUID) ([]LowStockItem, error) {
	tx := s.db.WithContext(ctx)
	if _, err := s.locationRepo.FindByID(tx, locationID); err != nil {
		return nil, notFound(err, ErrLocationNotFound)
	}
	rows, err := s.stockRepo.FindByLocation(tx, locationID)
	if err != nil {
		return nil, err
	}
	return s.lowStock(tx, rows)
}

func (s *dashboardService) lowStock(tx *gorm.DB, rows []model.LocationStock) ([]LowStockItem, error) {
	low := []LowStockItem{}
	for _, row := range rows {
		if row.MinQty <= 0 {
			continue
		}
		ref := model.ItemRef{Kind: row.ItemKind, ID: row.ItemID}
		current, err := s.resolver.Stock(tx, ref, row.LocationID)
		if err != nil {
			return nil, err
		}
		if current < row.MinQty {
			low = append(low, LowStockItem{
				LocationID: row.LocationID,
				Item:       ref,
				CurrentQty: current,
				MinQty:     row.MinQty,
				FullQty:    row.FullQty,
			})
		}
	}
	return low, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	tx := s.db.WithContext(ctx)
	components, err := s.itemRepo.FindAllComponents()
	if err != nil {
		return nil, err
	}
	products, err := s.itemRepo.FindAllProducts()
	if err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.FindAll()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalComponents: len(components),
		TotalProducts:   len(products),
		TotalLocations:  len(locations),
		TotalValuation:  decimal.Zero,
	}

	// Valuation counts components only; products are made of them.
	cost := make(map[uuid.UUID]decimal.Decimal, len(components))
	for _, c := range components {
		cost[c.ID] = c.UnitCost
	}
	componentRows, err := s.stockRepo.FindByKind(tx, model.ItemKindComponent)
	if err != nil {
		return nil, err
	}
	for _, row := range componentRows {
		if unit, ok := cost[row.ItemID]; ok {
			stats.TotalValuation = stats.TotalValuation.Add(unit.Mul(decimal.NewFromInt(int64(row.CurrentQty))))
		}
	}

	productRows, err := s.stockRepo.FindByKind(tx, model.ItemKindProduct)
	if err != nil {
		return nil, err
	}
	low, err := s.lowStock(tx, append(componentRows, productRows...))
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(low)
	return stats, nil
}
