package service

import (
	"context"
	"fmt"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreatePurchaseOrderRequest struct {
	PONumber        string     `json:"po_number" validate:"required,max=50"`
	PODate          time.Time  `json:"po_date"`
	SupplierName    string     `json:"supplier_name"`
	SupplierContact string     `json:"supplier_contact"`
	ExpectedDate    *time.Time `json:"expected_date"`
	Notes           string     `json:"notes"`
}

type AddPurchaseOrderItemRequest struct {
	Item       model.ItemRef   `json:"item"`
	LocationID uuid.UUID       `json:"location_id" validate:"uuid_required"`
	QtyOrdered int             `json:"qty_ordered" validate:"required,gt=0"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Notes      string          `json:"notes"`
}

// ReceiveLine is the quantity arriving now for one order line.
type ReceiveLine struct {
	OrderItemID uuid.UUID `json:"order_item_id" validate:"uuid_required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

type PurchaseService interface {
	CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest, actor Actor) (*model.PurchaseOrder, error)
	AddPurchaseOrderItem(ctx context.Context, poID uuid.UUID, req *AddPurchaseOrderItemRequest, actor Actor) (*model.PurchaseOrderItem, error)
	UpdatePurchaseOrderStatus(ctx context.Context, poID uuid.UUID, status model.PurchaseOrderStatus, actor Actor) (*model.PurchaseOrder, error)
	ReceivePurchaseOrderItems(ctx context.Context, poID uuid.UUID, lines []ReceiveLine, actor Actor) (*model.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, poID uuid.UUID) (*model.PurchaseOrder, error)
}

type purchaseService struct {
	ledger       *Ledger
	poRepo       repository.PurchaseOrderRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	logger       logrus.FieldLogger
}

func NewPurchaseService(
	ledger *Ledger,
	poRepo repository.PurchaseOrderRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger logrus.FieldLogger,
) PurchaseService {
	return &purchaseService{
		ledger:       ledger,
		poRepo:       poRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		db:           db,
		wsHub:        hub,
		logger:       logger,
	}
}

func (s *purchaseService) CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest, actor Actor) (*model.PurchaseOrder, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	poDate := req.PODate
	if poDate.IsZero() {
		poDate = time.Now().UTC()
	}

	po := &model.PurchaseOrder{
		PONumber:        req.PONumber,
		PODate:          poDate,
		Status:          model.POCreated,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		ExpectedDate:    req.ExpectedDate,
		Notes:           req.Notes,
	}
	po.CreatedBy = actor.ID
	po.UpdatedBy = actor.ID

	if err := s.poRepo.Create(s.db.WithContext(ctx), po); err != nil {
		config.LogError(s.logger, "purchase", "CreatePurchaseOrder", req, err)
		return nil, err
	}
	return po, nil
}

func (s *purchaseService) AddPurchaseOrderItem(ctx context.Context, poID uuid.UUID, req *AddPurchaseOrderItemRequest, actor Actor) (*model.PurchaseOrderItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.UnitCost.IsNegative() {
		return nil, validationError("unit cost cannot be negative")
	}

	item := &model.PurchaseOrderItem{
		POID:       poID,
		ItemKind:   req.Item.Kind,
		ItemID:     req.Item.ID,
		LocationID: req.LocationID,
		QtyOrdered: req.QtyOrdered,
		UnitCost:   req.UnitCost,
		TotalCost:  req.UnitCost.Mul(decimal.NewFromInt(int64(req.QtyOrdered))),
		Notes:      req.Notes,
	}
	item.CreatedBy = actor.ID
	item.UpdatedBy = actor.ID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.poRepo.FindForUpdate(tx, poID); err != nil {
			return notFound(err, ErrPurchaseOrderNotFound)
		}
		if _, err := s.locationRepo.FindByID(tx, req.LocationID); err != nil {
			return notFound(err, ErrLocationNotFound)
		}
		if _, err := s.itemRepo.FindSummary(tx, req.Item); err != nil {
			return notFound(err, ErrItemNotFound)
		}
		return s.poRepo.AddItem(tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdatePurchaseOrderStatus changes the header status only; any known status
// may follow any other.
func (s *purchaseService) UpdatePurchaseOrderStatus(ctx context.Context, poID uuid.UUID, status model.PurchaseOrderStatus, actor Actor) (*model.PurchaseOrder, error) {
	if !status.Valid() {
		return nil, validationError("unknown purchase order status %q", status)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.poRepo.FindForUpdate(tx, poID); err != nil {
			return notFound(err, ErrPurchaseOrderNotFound)
		}
		return s.poRepo.UpdateHeader(tx, poID, map[string]interface{}{
			"status":     status,
			"updated_by": actor.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetPurchaseOrder(ctx, poID)
}

// ReceivePurchaseOrderItems books arriving quantities as Purchase rows at each
// line's location. Product lines post only their components. All lines
// succeed or none do. Receiving more than ordered is allowed.
func (s *purchaseService) ReceivePurchaseOrderItems(ctx context.Context, poID uuid.UUID, lines []ReceiveLine, actor Actor) (*model.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, validationError("at least one line is required")
	}
	for i := range lines {
		if err := validateRequest(&lines[i]); err != nil {
			return nil, err
		}
	}

	var overReceived []uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po, err := s.poRepo.FindForUpdate(tx, poID)
		if err != nil {
			return notFound(err, ErrPurchaseOrderNotFound)
		}
		byID := make(map[uuid.UUID]*model.PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			byID[po.Items[i].ID] = &po.Items[i]
		}

		for _, line := range lines {
			item, ok := byID[line.OrderItemID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrOrderLineNotFound, line.OrderItemID)
			}
			if err := s.poRepo.IncrementReceived(tx, item.ID, line.Quantity, actor.ID); err != nil {
				return err
			}
			item.QtyReceived += line.Quantity
			if item.QtyReceived > item.QtyOrdered {
				overReceived = append(overReceived, item.ID)
			}

			deltas, err := s.ledger.ComponentDeltas(tx, item.Item(), line.Quantity)
			if err != nil {
				return err
			}
			for _, d := range deltas {
				if _, err := s.ledger.Post(tx, Posting{
					Kind:       model.TxPurchase,
					Item:       model.ComponentRef(d.ComponentID),
					LocationID: item.LocationID,
					Delta:      d.Quantity,
					Note:       fmt.Sprintf("Received on %s", po.PONumber),
					Reference:  po.PONumber,
				}, actor); err != nil {
					return err
				}
			}
		}

		header := map[string]interface{}{
			"actual_date": time.Now().UTC(),
			"updated_by":  actor.ID,
		}
		if allReceived(po.Items) && receivable(po.Status) {
			header["status"] = model.POReceived
		}
		return s.poRepo.UpdateHeader(tx, po.ID, header)
	})
	if err != nil {
		config.LogError(s.logger, "purchase", "ReceivePurchaseOrderItems", lines, err)
		return nil, err
	}

	if len(overReceived) > 0 {
		s.logger.WithFields(logrus.Fields{
			"po_id": poID,
			"lines": overReceived,
		}).Warn("received quantity exceeds ordered quantity")
	}

	po, err := s.GetPurchaseOrder(ctx, poID)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"po_id":     po.ID,
		"po_number": po.PONumber,
		"lines":     len(lines),
		"status":    po.Status,
		"actor":     actor.ID,
	}).Info("purchase order items received")

	s.wsHub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "purchase_received",
		"purchase_order": map[string]interface{}{
			"id":        po.ID,
			"po_number": po.PONumber,
			"status":    po.Status,
		},
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
		"message": fmt.Sprintf("%s received %d line(s) on %s", actor.Name, len(lines), po.PONumber),
	})
	return po, nil
}

func (s *purchaseService) GetPurchaseOrder(ctx context.Context, poID uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(s.db.WithContext(ctx), poID)
	if err != nil {
		return nil, notFound(err, ErrPurchaseOrderNotFound)
	}
	return po, nil
}

func allReceived(items []model.PurchaseOrderItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.FullyReceived() {
			return false
		}
	}
	return true
}

// receivable reports whether a fully received order should move to Received.
func receivable(status model.PurchaseOrderStatus) bool {
	switch status {
	case model.POCreated, model.POOrdered, model.POShipped:
		return true
	}
	return false
}
