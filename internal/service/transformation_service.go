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

type TransformationType string

const (
	BreakDown TransformationType = "BreakDown"
	Combine   TransformationType = "Combine"
)

type TransformationRequest struct {
	Type       TransformationType `json:"type" validate:"required,oneof=BreakDown Combine"`
	LocationID uuid.UUID          `json:"location_id" validate:"uuid_required"`
	Sources    []ComponentQty     `json:"sources" validate:"required,min=1,dive"`
	Results    []ComponentQty     `json:"results" validate:"required,min=1,dive"`
	Note       string             `json:"note"`
}

// TransformationResult groups the rows one transformation posted.
type TransformationResult struct {
	Reference string              `json:"reference"`
	Entries   []model.LedgerEntry `json:"entries"`
}

type TransformationService interface {
	ExecuteTransformation(ctx context.Context, req *TransformationRequest, actor Actor) (*TransformationResult, error)
}

type transformationService struct {
	ledger       *Ledger
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	logger       logrus.FieldLogger
}

func NewTransformationService(
	ledger *Ledger,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger logrus.FieldLogger,
) TransformationService {
	return &transformationService{
		ledger:       ledger,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		db:           db,
		wsHub:        hub,
		logger:       logger,
	}
}

// ExecuteTransformation converts component quantities at one location.
// BreakDown: one source (BreakDown row) into results (Adjustment rows).
// Combine: sources (Adjustment rows) into one result (Adjustment row).
// Sufficiency of source stock is the caller's concern.
func (s *transformationService) ExecuteTransformation(ctx context.Context, req *TransformationRequest, actor Actor) (*TransformationResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	sourceKind := model.TxAdjustment
	switch req.Type {
	case BreakDown:
		if len(req.Sources) != 1 {
			return nil, validationError("break down takes exactly one source component")
		}
		sourceKind = model.TxBreakDown
	case Combine:
		if len(req.Results) != 1 {
			return nil, validationError("combine produces exactly one result component")
		}
	}

	result := &TransformationResult{Reference: "TF-" + uuid.NewString()}
	note := req.Note
	if note == "" {
		note = fmt.Sprintf("%s %s", req.Type, result.Reference)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.locationRepo.FindByID(tx, req.LocationID); err != nil {
			return notFound(err, ErrLocationNotFound)
		}

		post := func(kind model.TransactionKind, c ComponentQty, sign int) error {
			ref := model.ComponentRef(c.ComponentID)
			if _, err := s.itemRepo.FindSummary(tx, ref); err != nil {
				return notFound(err, ErrItemNotFound)
			}
			entry, err := s.ledger.Post(tx, Posting{
				Kind:       kind,
				Item:       ref,
				LocationID: req.LocationID,
				Delta:      sign * c.Quantity,
				Note:       note,
				Reference:  result.Reference,
			}, actor)
			if err != nil {
				return err
			}
			result.Entries = append(result.Entries, *entry)
			return nil
		}

		for _, c := range req.Sources {
			if err := post(sourceKind, c, -1); err != nil {
				return err
			}
		}
		for _, c := range req.Results {
			if err := post(model.TxAdjustment, c, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(s.logger, "transformation", "ExecuteTransformation", req, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reference":   result.Reference,
		"type":        req.Type,
		"location_id": req.LocationID,
		"sources":     req.Sources,
		"results":     req.Results,
		"actor":       actor.ID,
	}).Info("component transformation executed")

	s.wsHub.Publish(map[string]interface{}{
		"type":        "stock_update",
		"action":      "transformation_executed",
		"reference":   result.Reference,
		"location_id": req.LocationID,
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
		"message": fmt.Sprintf("%s executed %s %s", actor.Name, req.Type, result.Reference),
	})
	return result, nil
}
