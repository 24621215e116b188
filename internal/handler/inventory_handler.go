package handler

import (
	"context"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

type thresholdRequest struct {
	Quantity int `json:"quantity"`
}

// GetStock returns current stock of one item at one location.
// Route: /locations/:locationId/stock/:kind/:itemId
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	locationID, err := parseUUIDParam(c, "locationId")
	if err != nil {
		return badRequest(c, "Invalid location ID")
	}
	ref, ok := itemRefParam(c)
	if !ok {
		return badRequest(c, "Invalid item")
	}

	var qty int
	if ref.Kind == model.ItemKindProduct {
		qty, err = h.service.GetProductStock(c.UserContext(), ref.ID, locationID)
	} else {
		qty, err = h.service.GetComponentStock(c.UserContext(), ref.ID, locationID)
	}
	if err != nil {
		return respondError(c, err)
	}

	minQty, err := h.service.GetMinimumStock(c.UserContext(), locationID, ref)
	if err != nil {
		return respondError(c, err)
	}
	fullQty, err := h.service.GetFullStock(c.UserContext(), locationID, ref)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"location_id": locationID,
		"item_kind":   ref.Kind,
		"item_id":     ref.ID,
		"quantity":    qty,
		"min_qty":     minQty,
		"full_qty":    fullQty,
	})
}

func (h *InventoryHandler) SetMinimumStock(c *fiber.Ctx) error {
	return h.setThreshold(c, h.service.SetMinimumStock)
}

func (h *InventoryHandler) SetFullStock(c *fiber.Ctx) error {
	return h.setThreshold(c, h.service.SetFullStock)
}

func (h *InventoryHandler) setThreshold(c *fiber.Ctx, apply func(context.Context, uuid.UUID, model.ItemRef, int, service.Actor) error) error {
	locationID, err := parseUUIDParam(c, "locationId")
	if err != nil {
		return badRequest(c, "Invalid location ID")
	}
	ref, ok := itemRefParam(c)
	if !ok {
		return badRequest(c, "Invalid item")
	}
	var req thresholdRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := apply(c.UserContext(), locationID, ref, req.Quantity, actorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Threshold updated"})
}

func (h *InventoryHandler) RecordTransaction(c *fiber.Ctx) error {
	var req service.RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.Record(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": result})
}

// GetLedgerEntries lists ledger rows.
// Query params: location_id, item_kind, item_id, kind, reference, from, to (RFC3339), limit
func (h *InventoryHandler) GetLedgerEntries(c *fiber.Ctx) error {
	var filter repository.LedgerFilter
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid location ID")
		}
		filter.LocationID = id
	}
	if raw := c.Query("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		kind := model.ItemKind(c.Query("item_kind"))
		if err != nil || !kind.Valid() {
			return badRequest(c, "Invalid item")
		}
		filter.Item = &model.ItemRef{Kind: kind, ID: id}
	}
	if raw := c.Query("kind"); raw != "" {
		kind := model.TransactionKind(raw)
		if !kind.Valid() {
			return badRequest(c, "Invalid transaction kind")
		}
		filter.Kind = kind
	}
	filter.Reference = c.Query("reference")

	var err error
	if filter.From, err = queryTime(c, "from"); err != nil {
		return badRequest(c, "Invalid from date")
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return badRequest(c, "Invalid to date")
	}
	filter.Limit = queryInt(c, "limit", 500)

	entries, err := h.service.GetLedgerEntries(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (h *InventoryHandler) VerifyLedger(c *fiber.Ctx) error {
	drift, err := h.service.VerifyLedger(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"consistent": len(drift) == 0,
		"drift":      drift,
	})
}
