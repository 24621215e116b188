package service

import (
	"context"
	"fmt"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateItemRequest struct {
	SKU         string          `json:"sku" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CreateLocationRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
	IsOnline bool   `json:"is_online"`
}

type CatalogService interface {
	CreateComponent(ctx context.Context, req *CreateItemRequest, actor Actor) (*model.Component, error)
	CreateProduct(ctx context.Context, req *CreateItemRequest, actor Actor) (*model.Product, error)
	GetComponent(ctx context.Context, id uuid.UUID) (*model.Component, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListComponents(ctx context.Context) ([]model.Component, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	SetItemActive(ctx context.Context, ref model.ItemRef, active bool, actor Actor) error
	ReplaceBillOfMaterials(ctx context.Context, productID uuid.UUID, lines []ComponentQty, actor Actor) ([]model.BillOfMaterials, error)
	GetBillOfMaterials(ctx context.Context, productID uuid.UUID) ([]model.BillOfMaterials, error)
	CreateLocation(ctx context.Context, req *CreateLocationRequest, actor Actor) (*model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)
}

type catalogService struct {
	itemRepo     repository.ItemRepository
	bomRepo      repository.BOMRepository
	locationRepo repository.LocationRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	logger       logrus.FieldLogger
}

func NewCatalogService(
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger logrus.FieldLogger,
) CatalogService {
	return &catalogService{
		itemRepo:     itemRepo,
		bomRepo:      bomRepo,
		locationRepo: locationRepo,
		db:           db,
		wsHub:        hub,
		logger:       logger,
	}
}

func (s *catalogService) newItem(kind model.ItemKind, req *CreateItemRequest, actor Actor) (model.Item, error) {
	if err := validateRequest(req); err != nil {
		return model.Item{}, err
	}
	if req.UnitCost.IsNegative() || req.UnitPrice.IsNegative() {
		return model.Item{}, validationError("unit cost and price cannot be negative")
	}
	exists, err := s.itemRepo.SKUExists(kind, req.SKU)
	if err != nil {
		return model.Item{}, err
	}
	if exists {
		return model.Item{}, ErrSKUExists
	}

	item := model.Item{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		UnitCost:    req.UnitCost,
		UnitPrice:   req.UnitPrice,
		IsActive:    true,
	}
	item.CreatedBy = actor.ID
	item.UpdatedBy = actor.ID
	return item, nil
}

func (s *catalogService) CreateComponent(ctx context.Context, req *CreateItemRequest, actor Actor) (*model.Component, error) {
	item, err := s.newItem(model.ItemKindComponent, req, actor)
	if err != nil {
		return nil, err
	}
	component := &model.Component{Item: item}
	if err := s.itemRepo.CreateComponent(component); err != nil {
		config.LogError(s.logger, "catalog", "CreateComponent", req, err)
		return nil, err
	}
	s.announce("component_created", model.ComponentRef(component.ID), component.SKU, component.Name, actor)
	return component, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *CreateItemRequest, actor Actor) (*model.Product, error) {
	item, err := s.newItem(model.ItemKindProduct, req, actor)
	if err != nil {
		return nil, err
	}
	product := &model.Product{Item: item}
	if err := s.itemRepo.CreateProduct(product); err != nil {
		config.LogError(s.logger, "catalog", "CreateProduct", req, err)
		return nil, err
	}
	s.announce("product_created", model.ProductRef(product.ID), product.SKU, product.Name, actor)
	return product, nil
}

func (s *catalogService) GetComponent(ctx context.Context, id uuid.UUID) (*model.Component, error) {
	component, err := s.itemRepo.FindComponentByID(id)
	if err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return component, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.itemRepo.FindProductByID(id)
	if err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return product, nil
}

func (s *catalogService) ListComponents(ctx context.Context) ([]model.Component, error) {
	return s.itemRepo.FindAllComponents()
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.itemRepo.FindAllProducts()
}

// SetItemActive flags an item; inactive items keep their stock and history.
func (s *catalogService) SetItemActive(ctx context.Context, ref model.ItemRef, active bool, actor Actor) error {
	if err := validateRequest(&ref); err != nil {
		return err
	}
	if err := s.itemRepo.SetActive(ref, active, actor.ID); err != nil {
		return notFound(err, ErrItemNotFound)
	}
	s.logger.WithFields(logrus.Fields{
		"item":   ref.String(),
		"active": active,
		"actor":  actor.ID,
	}).Info("item activation changed")
	return nil
}

// ReplaceBillOfMaterials swaps a product's whole recipe in one transaction.
// Stock derived from the product changes immediately; past ledger rows do not.
func (s *catalogService) ReplaceBillOfMaterials(ctx context.Context, productID uuid.UUID, lines []ComponentQty, actor Actor) ([]model.BillOfMaterials, error) {
	seen := make(map[uuid.UUID]bool, len(lines))
	bom := make([]model.BillOfMaterials, 0, len(lines))
	for i := range lines {
		if err := validateRequest(&lines[i]); err != nil {
			return nil, err
		}
		if lines[i].ComponentID == productID {
			return nil, validationError("a product cannot list itself as a component")
		}
		if seen[lines[i].ComponentID] {
			return nil, validationError("component %s listed twice", lines[i].ComponentID)
		}
		seen[lines[i].ComponentID] = true
		bom = append(bom, model.BillOfMaterials{
			ComponentID: lines[i].ComponentID,
			Quantity:    lines[i].Quantity,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.itemRepo.FindSummary(tx, model.ProductRef(productID)); err != nil {
			return notFound(err, ErrItemNotFound)
		}
		for _, line := range bom {
			if _, err := s.itemRepo.FindSummary(tx, model.ComponentRef(line.ComponentID)); err != nil {
				return notFound(err, fmt.Errorf("component %s: %w", line.ComponentID, ErrItemNotFound))
			}
		}
		return s.bomRepo.Replace(tx, productID, bom)
	})
	if err != nil {
		config.LogError(s.logger, "catalog", "ReplaceBillOfMaterials", lines, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": productID,
		"lines":      len(bom),
		"actor":      actor.ID,
	}).Info("bill of materials replaced")
	return bom, nil
}

func (s *catalogService) GetBillOfMaterials(ctx context.Context, productID uuid.UUID) ([]model.BillOfMaterials, error) {
	tx := s.db.WithContext(ctx)
	if _, err := s.itemRepo.FindSummary(tx, model.ProductRef(productID)); err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return s.bomRepo.FindByProduct(tx, productID)
}

func (s *catalogService) CreateLocation(ctx context.Context, req *CreateLocationRequest, actor Actor) (*model.Location, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	location := &model.Location{
		Name:     req.Name,
		Address:  req.Address,
		Notes:    req.Notes,
		IsOnline: req.IsOnline,
		IsActive: true,
	}
	location.CreatedBy = actor.ID
	location.UpdatedBy = actor.ID
	if err := s.locationRepo.Create(location); err != nil {
		config.LogError(s.logger, "catalog", "CreateLocation", req, err)
		return nil, err
	}
	return location, nil
}

func (s *catalogService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.locationRepo.FindAll()
}

func (s *catalogService) announce(action string, ref model.ItemRef, sku, name string, actor Actor) {
	s.logger.WithFields(logrus.Fields{
		"item":  ref.String(),
		"sku":   sku,
		"actor": actor.ID,
	}).Info(action)

	s.wsHub.Publish(map[string]interface{}{
		"type":   "catalog_update",
		"action": action,
		"item": map[string]interface{}{
			"item_kind": ref.Kind,
			"item_id":   ref.ID,
			"sku":       sku,
			"name":      name,
		},
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
		"message": fmt.Sprintf("%s created %s '%s'", actor.Name, ref.Kind, name),
	})
}
