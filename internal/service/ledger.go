package service

import (
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Posting is one ledger row to write. Component postings also move
// LocationStock; product postings are audit rows only.
type Posting struct {
	Kind       model.TransactionKind
	Item       model.ItemRef
	LocationID uuid.UUID
	Delta      int
	Note       string
	Reference  string
	// TransferID marks rows a transfer posted. Caller-recorded events never carry it.
	TransferID *uuid.UUID
}

// ComponentQty is a quantity of one component.
type ComponentQty struct {
	ComponentID uuid.UUID `json:"component_id" validate:"uuid_required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

// Ledger writes ledger rows and their stock effects. Every method runs on the
// transaction it is given; callers own commit and rollback.
type Ledger struct {
	ledgerRepo repository.LedgerRepository
	stockRepo  repository.StockRepository
	bomRepo    repository.BOMRepository
	logger     logrus.FieldLogger
}

func NewLedger(ledgerRepo repository.LedgerRepository, stockRepo repository.StockRepository, bomRepo repository.BOMRepository, logger logrus.FieldLogger) *Ledger {
	return &Ledger{
		ledgerRepo: ledgerRepo,
		stockRepo:  stockRepo,
		bomRepo:    bomRepo,
		logger:     logger,
	}
}

// Post inserts one entry and, for components, applies its delta to
// LocationStock. Product stock is never stored.
func (l *Ledger) Post(tx *gorm.DB, p Posting, actor Actor) (*model.LedgerEntry, error) {
	entry := &model.LedgerEntry{
		Kind:       p.Kind,
		ItemKind:   p.Item.Kind,
		ItemID:     p.Item.ID,
		LocationID: p.LocationID,
		QtyDelta:   p.Delta,
		Note:       p.Note,
		Reference:  p.Reference,
		TransferID: p.TransferID,
		CreatedBy:  actor.ID,
	}
	if err := l.ledgerRepo.Create(tx, entry); err != nil {
		return nil, err
	}
	if p.Item.Kind == model.ItemKindComponent {
		if err := l.stockRepo.ApplyDelta(tx, p.LocationID, p.Item, p.Delta); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Record posts the requested entry and, for a product, the component rows
// its bill of materials implies for the transaction kind.
func (l *Ledger) Record(tx *gorm.DB, p Posting, actor Actor) (*model.LedgerEntry, []model.LedgerEntry, error) {
	entry, err := l.Post(tx, p, actor)
	if err != nil {
		return nil, nil, err
	}
	if p.Item.Kind != model.ItemKindProduct {
		return entry, nil, nil
	}

	direction := expansionDirection(p.Kind, p.Delta)
	if direction == 0 {
		return entry, nil, nil
	}

	lines, err := l.bomRepo.FindByProduct(tx, p.Item.ID)
	if err != nil {
		return nil, nil, err
	}
	expanded := make([]model.LedgerEntry, 0, len(lines))
	for _, line := range lines {
		child, err := l.Post(tx, Posting{
			Kind:       p.Kind,
			Item:       model.ComponentRef(line.ComponentID),
			LocationID: p.LocationID,
			Delta:      direction * line.Quantity * abs(p.Delta),
			Note:       fmt.Sprintf("%s of product %s", p.Kind, p.Item.ID),
			Reference:  p.Reference,
		}, actor)
		if err != nil {
			return nil, nil, err
		}
		expanded = append(expanded, *child)
	}
	return entry, expanded, nil
}

// ComponentDeltas resolves qty units of ref into the components they are
// made of. A component resolves to itself.
func (l *Ledger) ComponentDeltas(tx *gorm.DB, ref model.ItemRef, qty int) ([]ComponentQty, error) {
	switch ref.Kind {
	case model.ItemKindComponent:
		return []ComponentQty{{ComponentID: ref.ID, Quantity: qty}}, nil
	case model.ItemKindProduct:
		lines, err := l.bomRepo.FindByProduct(tx, ref.ID)
		if err != nil {
			return nil, err
		}
		out := make([]ComponentQty, 0, len(lines))
		for _, line := range lines {
			out = append(out, ComponentQty{ComponentID: line.ComponentID, Quantity: line.Quantity * qty})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", repository.ErrUnknownItemKind, ref.Kind)
}

// expansionDirection tells whether a product event restores (+1) or
// consumes (-1) its components. Zero means no expansion.
func expansionDirection(kind model.TransactionKind, delta int) int {
	switch kind {
	case model.TxPurchase, model.TxReturn:
		return 1
	case model.TxSale:
		return -1
	case model.TxAdjustment:
		switch {
		case delta > 0:
			return 1
		case delta < 0:
			return -1
		}
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
