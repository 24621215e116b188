package service

import (
	"context"
	"fmt"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordRequest is a caller-supplied stock event.
type RecordRequest struct {
	Kind          model.TransactionKind `json:"kind" validate:"required"`
	Item          model.ItemRef         `json:"item"`
	LocationID    uuid.UUID             `json:"location_id" validate:"uuid_required"`
	QuantityDelta int                   `json:"quantity_delta" validate:"required"`
	Note          string                `json:"note"`
	Reference     string                `json:"reference" validate:"max=100"`
}

// RecordResult is the requested entry plus any component rows it expanded into.
type RecordResult struct {
	Entry    *model.LedgerEntry  `json:"entry"`
	Expanded []model.LedgerEntry `json:"expanded,omitempty"`
}

// LedgerDrift is a (location, component) whose stored quantity disagrees
// with the sum of its ledger rows.
type LedgerDrift struct {
	LocationID  uuid.UUID `json:"location_id"`
	ComponentID uuid.UUID `json:"component_id"`
	LedgerSum   int       `json:"ledger_sum"`
	StoredQty   int       `json:"stored_qty"`
}

type InventoryService interface {
	GetComponentStock(ctx context.Context, componentID, locationID uuid.UUID) (int, error)
	GetProductStock(ctx context.Context, productID, locationID uuid.UUID) (int, error)
	GetMinimumStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef) (int, error)
	SetMinimumStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef, qty int, actor Actor) error
	GetFullStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef) (int, error)
	SetFullStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef, qty int, actor Actor) error
	Record(ctx context.Context, req *RecordRequest, actor Actor) (*RecordResult, error)
	GetLedgerEntries(ctx context.Context, filter repository.LedgerFilter) ([]model.LedgerEntry, error)
	VerifyLedger(ctx context.Context) ([]LedgerDrift, error)
}

type inventoryService struct {
	ledger       *Ledger
	resolver     *StockResolver
	stockRepo    repository.StockRepository
	ledgerRepo   repository.LedgerRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	logger       logrus.FieldLogger
}

func NewInventoryService(
	ledger *Ledger,
	resolver *StockResolver,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger logrus.FieldLogger,
) InventoryService {
	return &inventoryService{
		ledger:       ledger,
		resolver:     resolver,
		stockRepo:    stockRepo,
		ledgerRepo:   ledgerRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		db:           db,
		wsHub:        hub,
		logger:       logger,
	}
}

func (s *inventoryService) GetComponentStock(ctx context.Context, componentID, locationID uuid.UUID) (int, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.itemRepo.FindSummary(db, model.ComponentRef(componentID)); err != nil {
		return 0, notFound(err, ErrItemNotFound)
	}
	return s.resolver.ComponentStock(db, componentID, locationID)
}

// GetProductStock derives stock from the bill of materials. A product with
// no components reports 0; an unknown product is ErrItemNotFound.
func (s *inventoryService) GetProductStock(ctx context.Context, productID, locationID uuid.UUID) (int, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.itemRepo.FindSummary(db, model.ProductRef(productID)); err != nil {
		return 0, notFound(err, ErrItemNotFound)
	}
	return s.resolver.ProductStock(db, productID, locationID)
}

func (s *inventoryService) GetMinimumStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef) (int, error) {
	row, err := s.stockRepo.Find(s.db.WithContext(ctx), locationID, ref)
	if err != nil || row == nil {
		return 0, err
	}
	return row.MinQty, nil
}

func (s *inventoryService) GetFullStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef) (int, error) {
	row, err := s.stockRepo.Find(s.db.WithContext(ctx), locationID, ref)
	if err != nil || row == nil {
		return 0, err
	}
	return row.FullQty, nil
}

func (s *inventoryService) SetMinimumStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef, qty int, actor Actor) error {
	return s.setThreshold(ctx, locationID, ref, qty, actor, "min", s.stockRepo.SetMinimum)
}

func (s *inventoryService) SetFullStock(ctx context.Context, locationID uuid.UUID, ref model.ItemRef, qty int, actor Actor) error {
	return s.setThreshold(ctx, locationID, ref, qty, actor, "full", s.stockRepo.SetFull)
}

func (s *inventoryService) setThreshold(
	ctx context.Context,
	locationID uuid.UUID,
	ref model.ItemRef,
	qty int,
	actor Actor,
	name string,
	apply func(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef, qty int) error,
) error {
	if qty < 0 {
		return validationError("%s stock cannot be negative", name)
	}
	if err := validateRequest(&ref); err != nil {
		return err
	}
	if locationID == uuid.Nil {
		return validationError("location is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureExists(tx, locationID, ref); err != nil {
			return err
		}
		if err := apply(tx, locationID, ref, qty); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"location_id": locationID,
			"item":        ref.String(),
			"threshold":   name,
			"qty":         qty,
			"actor":       actor.ID,
		}).Info("stock threshold updated")
		return nil
	})
}

func (s *inventoryService) Record(ctx context.Context, req *RecordRequest, actor Actor) (*RecordResult, error) {
	// 1. Validasi Input
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, validationError("unknown transaction kind %q", req.Kind)
	}

	result := &RecordResult{}
	// 2. Atomic: entry + stock + expansion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureExists(tx, req.LocationID, req.Item); err != nil {
			return err
		}

		entry, expanded, err := s.ledger.Record(tx, Posting{
			Kind:       req.Kind,
			Item:       req.Item,
			LocationID: req.LocationID,
			Delta:      req.QuantityDelta,
			Note:       req.Note,
			Reference:  req.Reference,
		}, actor)
		if err != nil {
			return err
		}
		result.Entry = entry
		result.Expanded = expanded
		return nil
	})
	if err != nil {
		config.LogError(s.logger, "inventory", "Record", req, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"entry_id":    result.Entry.ID,
		"kind":        req.Kind,
		"item":        req.Item.String(),
		"location_id": req.LocationID,
		"delta":       req.QuantityDelta,
		"expanded":    len(result.Expanded),
		"actor":       actor.ID,
	}).Info("ledger entry recorded")

	s.wsHub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "ledger_recorded",
		"entry":  result.Entry,
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
		"message": fmt.Sprintf("%s recorded %s of %d for %s", actor.Name, req.Kind, req.QuantityDelta, req.Item),
	})
	return result, nil
}

func (s *inventoryService) GetLedgerEntries(ctx context.Context, filter repository.LedgerFilter) ([]model.LedgerEntry, error) {
	return s.ledgerRepo.FindAll(s.db.WithContext(ctx), filter)
}

// VerifyLedger checks that every component stock row equals the sum of its
// ledger rows, and that no ledger sum lacks a stock row. Product rows are
// audit entries with no stored stock and are left out of the check.
func (s *inventoryService) VerifyLedger(ctx context.Context) ([]LedgerDrift, error) {
	db := s.db.WithContext(ctx)
	sums, err := s.ledgerRepo.SumByLocationItem(db, model.ItemKindComponent)
	if err != nil {
		return nil, err
	}
	rows, err := s.stockRepo.FindByKind(db, model.ItemKindComponent)
	if err != nil {
		return nil, err
	}

	type key struct{ location, item uuid.UUID }
	ledgerTotals := make(map[key]int, len(sums))
	for _, sum := range sums {
		ledgerTotals[key{sum.LocationID, sum.ItemID}] = sum.Total
	}

	var drifts []LedgerDrift
	for _, row := range rows {
		k := key{row.LocationID, row.ItemID}
		total := ledgerTotals[k]
		delete(ledgerTotals, k)
		if total != row.CurrentQty {
			drifts = append(drifts, LedgerDrift{LocationID: row.LocationID, ComponentID: row.ItemID, LedgerSum: total, StoredQty: row.CurrentQty})
		}
	}
	for k, total := range ledgerTotals {
		if total != 0 {
			drifts = append(drifts, LedgerDrift{LocationID: k.location, ComponentID: k.item, LedgerSum: total})
		}
	}
	return drifts, nil
}

func (s *inventoryService) ensureExists(tx *gorm.DB, locationID uuid.UUID, ref model.ItemRef) error {
	if _, err := s.locationRepo.FindByID(tx, locationID); err != nil {
		return notFound(err, ErrLocationNotFound)
	}
	if _, err := s.itemRepo.FindSummary(tx, ref); err != nil {
		return notFound(err, ErrItemNotFound)
	}
	return nil
}
