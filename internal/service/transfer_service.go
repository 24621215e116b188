package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateTransferRequest struct {
	FromLocationID uuid.UUID `json:"from_location_id" validate:"uuid_required"`
	ToLocationID   uuid.UUID `json:"to_location_id" validate:"uuid_required"`
	Notes          string    `json:"notes"`
	Tracking       string    `json:"tracking" validate:"max=100"`
}

type AddTransferItemRequest struct {
	Item     model.ItemRef `json:"item"`
	Quantity int           `json:"quantity" validate:"required,gt=0"`
	Notes    string        `json:"notes"`
}

type TransferService interface {
	CreateBulkTransferOrder(ctx context.Context, req *CreateTransferRequest, actor Actor) (*model.BulkTransferOrder, error)
	AddBulkTransferItem(ctx context.Context, transferID uuid.UUID, req *AddTransferItemRequest, actor Actor) (*model.BulkTransferItem, error)
	UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status model.TransferStatus, at *time.Time, actor Actor) (*model.BulkTransferOrder, error)
	ExecuteTransfer(ctx context.Context, transferID uuid.UUID, actor Actor) (*model.BulkTransferOrder, error)
	GetTransfer(ctx context.Context, transferID uuid.UUID) (*model.BulkTransferOrder, error)
	ListTransfers(ctx context.Context, status model.TransferStatus) ([]model.BulkTransferOrder, error)
}

type TransferOption func(*transferService)

// WithTransitionPolicy replaces the default permissive policy.
func WithTransitionPolicy(policy TransitionPolicy) TransferOption {
	return func(s *transferService) {
		s.policy = policy
	}
}

// WithClock overrides time.Now for status stamps and transfer numbers.
func WithClock(now func() time.Time) TransferOption {
	return func(s *transferService) {
		s.now = now
	}
}

type transferService struct {
	ledger       *Ledger
	resolver     *StockResolver
	transferRepo repository.TransferRepository
	ledgerRepo   repository.LedgerRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	logger       logrus.FieldLogger
	policy       TransitionPolicy
	now          func() time.Time
}

func NewTransferService(
	ledger *Ledger,
	resolver *StockResolver,
	transferRepo repository.TransferRepository,
	ledgerRepo repository.LedgerRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger logrus.FieldLogger,
	opts ...TransferOption,
) TransferService {
	s := &transferService{
		ledger:       ledger,
		resolver:     resolver,
		transferRepo: transferRepo,
		ledgerRepo:   ledgerRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		db:           db,
		wsHub:        hub,
		logger:       logger,
		policy:       PermissivePolicy{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *transferService) CreateBulkTransferOrder(ctx context.Context, req *CreateTransferRequest, actor Actor) (*model.BulkTransferOrder, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, validationError("source and destination locations must differ")
	}

	order := &model.BulkTransferOrder{
		TransferNumber: s.nextTransferNumber(),
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Status:         model.TransferCreated,
		Notes:          req.Notes,
		Tracking:       req.Tracking,
	}
	order.CreatedBy = actor.ID
	order.UpdatedBy = actor.ID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.locationRepo.FindByID(tx, req.FromLocationID); err != nil {
			return notFound(err, ErrLocationNotFound)
		}
		if _, err := s.locationRepo.FindByID(tx, req.ToLocationID); err != nil {
			return notFound(err, ErrLocationNotFound)
		}
		return s.transferRepo.Create(tx, order)
	})
	if err != nil {
		config.LogError(s.logger, "transfer", "CreateBulkTransferOrder", req, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transfer_id":     order.ID,
		"transfer_number": order.TransferNumber,
		"from":            order.FromLocationID,
		"to":              order.ToLocationID,
		"actor":           actor.ID,
	}).Info("transfer order created")
	return order, nil
}

func (s *transferService) AddBulkTransferItem(ctx context.Context, transferID uuid.UUID, req *AddTransferItemRequest, actor Actor) (*model.BulkTransferItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var item *model.BulkTransferItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.transferRepo.FindForUpdate(tx, transferID)
		if err != nil {
			return notFound(err, ErrTransferNotFound)
		}
		if order.Status != model.TransferCreated {
			return fmt.Errorf("%w (status %s)", ErrTransferNotEditable, order.Status)
		}

		summary, err := s.itemRepo.FindSummary(tx, req.Item)
		if err != nil {
			return notFound(err, ErrItemNotFound)
		}
		available, err := s.resolver.Stock(tx, req.Item, order.FromLocationID)
		if err != nil {
			return err
		}

		item = &model.BulkTransferItem{
			TransferID:             order.ID,
			ItemKind:               req.Item.Kind,
			ItemID:                 req.Item.ID,
			NameSnapshot:           summary.Name,
			SKUSnapshot:            summary.SKU,
			Quantity:               req.Quantity,
			AvailableStockSnapshot: available,
			Notes:                  req.Notes,
		}
		item.CreatedBy = actor.ID
		item.UpdatedBy = actor.ID
		return s.transferRepo.AddItem(tx, item)
	})
	if err != nil {
		return nil, err
	}

	if item.Quantity > item.AvailableStockSnapshot {
		s.logger.WithFields(logrus.Fields{
			"transfer_id": transferID,
			"item":        item.Item().String(),
			"quantity":    item.Quantity,
			"available":   item.AvailableStockSnapshot,
		}).Warn("transfer quantity exceeds available stock at source")
	}
	return item, nil
}

func (s *transferService) ExecuteTransfer(ctx context.Context, transferID uuid.UUID, actor Actor) (*model.BulkTransferOrder, error) {
	return s.UpdateTransferStatus(ctx, transferID, model.TransferCompleted, nil, actor)
}

// UpdateTransferStatus is the only way a transfer changes stock. Entering
// Completed executes the movement; leaving Completed first reverses it, in
// the same transaction as the status write.
func (s *transferService) UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status model.TransferStatus, at *time.Time, actor Actor) (*model.BulkTransferOrder, error) {
	if !status.Valid() {
		return nil, validationError("unknown transfer status %q", status)
	}

	var from model.TransferStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.transferRepo.FindForUpdate(tx, transferID)
		if err != nil {
			return notFound(err, ErrTransferNotFound)
		}
		from = order.Status
		if from == status {
			return nil
		}
		if !s.policy.Allowed(from, status) {
			return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, status)
		}

		stamp := s.now().UTC()
		if at != nil {
			stamp = at.UTC()
		}
		fields := map[string]interface{}{
			"status":     status,
			"updated_by": actor.ID,
		}

		if from == model.TransferCompleted {
			if err := s.reverse(tx, order, actor); err != nil {
				return err
			}
			fields["completed_at"] = nil
		}

		switch status {
		case model.TransferInTransit:
			if at != nil {
				fields["shipped_at"] = stamp
			}
		case model.TransferDelivered:
			fields["delivered_at"] = stamp
		case model.TransferCompleted:
			if err := s.execute(tx, order, actor); err != nil {
				return err
			}
			fields["completed_at"] = stamp
		}

		return s.transferRepo.UpdateStatus(tx, order.ID, fields)
	})
	if err != nil {
		config.LogError(s.logger, "transfer", "UpdateTransferStatus", map[string]interface{}{
			"transfer_id": transferID,
			"status":      status,
		}, err)
		return nil, err
	}

	order, err := s.GetTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if from != status {
		s.logger.WithFields(logrus.Fields{
			"transfer_id":     order.ID,
			"transfer_number": order.TransferNumber,
			"from_status":     from,
			"to_status":       status,
			"actor":           actor.ID,
		}).Info("transfer status changed")

		s.wsHub.Publish(map[string]interface{}{
			"type":   "stock_update",
			"action": "transfer_status_changed",
			"transfer": map[string]interface{}{
				"id":              order.ID,
				"transfer_number": order.TransferNumber,
				"from_status":     from,
				"status":          status,
			},
			"user": map[string]interface{}{
				"id":    actor.ID,
				"name":  actor.Name,
				"email": actor.Email,
			},
			"message": fmt.Sprintf("%s moved transfer %s from %s to %s", actor.Name, order.TransferNumber, from, status),
		})
	}
	return order, nil
}

// execute moves every item's components from source to destination. Products
// post no rows of their own.
func (s *transferService) execute(tx *gorm.DB, order *model.BulkTransferOrder, actor Actor) error {
	for _, item := range order.Items {
		deltas, err := s.ledger.ComponentDeltas(tx, item.Item(), item.Quantity)
		if err != nil {
			return err
		}
		for _, d := range deltas {
			if err := s.move(tx, order, d, actor); err != nil {
				return err
			}
		}
	}
	return nil
}

// reverse posts the exact inverse of what this transfer has moved so far,
// netted from its own ledger rows.
func (s *transferService) reverse(tx *gorm.DB, order *model.BulkTransferOrder, actor Actor) error {
	sums, err := s.ledgerRepo.SumByTransfer(tx, order.ID)
	if err != nil {
		return err
	}
	for _, sum := range sums {
		if sum.Total == 0 {
			continue
		}
		_, err := s.ledger.Post(tx, Posting{
			Kind:       model.TxTransfer,
			Item:       model.ComponentRef(sum.ItemID),
			LocationID: sum.LocationID,
			Delta:      -sum.Total,
			Note:       fmt.Sprintf("Reversal of transfer %s", order.TransferNumber),
			Reference:  order.TransferNumber,
			TransferID: &order.ID,
		}, actor)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *transferService) move(tx *gorm.DB, order *model.BulkTransferOrder, d ComponentQty, actor Actor) error {
	ref := model.ComponentRef(d.ComponentID)
	from, to := order.FromLocationID, order.ToLocationID
	note := fmt.Sprintf("Transfer %s", order.TransferNumber)
	if _, err := s.ledger.Post(tx, Posting{
		Kind: model.TxTransfer, Item: ref, LocationID: from, Delta: -d.Quantity, Note: note,
		Reference: order.TransferNumber, TransferID: &order.ID,
	}, actor); err != nil {
		return err
	}
	_, err := s.ledger.Post(tx, Posting{
		Kind: model.TxTransfer, Item: ref, LocationID: to, Delta: d.Quantity, Note: note,
		Reference: order.TransferNumber, TransferID: &order.ID,
	}, actor)
	return err
}

func (s *transferService) GetTransfer(ctx context.Context, transferID uuid.UUID) (*model.BulkTransferOrder, error) {
	order, err := s.transferRepo.FindByID(s.db.WithContext(ctx), transferID)
	if err != nil {
		return nil, notFound(err, ErrTransferNotFound)
	}
	return order, nil
}

func (s *transferService) ListTransfers(ctx context.Context, status model.TransferStatus) ([]model.BulkTransferOrder, error) {
	if status != "" && !status.Valid() {
		return nil, validationError("unknown transfer status %q", status)
	}
	return s.transferRepo.FindAll(s.db.WithContext(ctx), status)
}

func (s *transferService) nextTransferNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TR-%s-%s", s.now().UTC().Format("20060102"), suffix)
}
