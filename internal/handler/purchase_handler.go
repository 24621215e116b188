package handler

import (
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	service service.PurchaseService
}

func NewPurchaseHandler(s service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

type updatePurchaseStatusRequest struct {
	Status model.PurchaseOrderStatus `json:"status"`
}

type receiveRequest struct {
	Lines []service.ReceiveLine `json:"lines"`
}

func (h *PurchaseHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var req service.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	po, err := h.service.CreatePurchaseOrder(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Purchase order created", "data": po})
}

func (h *PurchaseHandler) AddItem(c *fiber.Ctx) error {
	poID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid purchase order ID")
	}
	var req service.AddPurchaseOrderItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	item, err := h.service.AddPurchaseOrderItem(c.UserContext(), poID, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added", "data": item})
}

func (h *PurchaseHandler) UpdateStatus(c *fiber.Ctx) error {
	poID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid purchase order ID")
	}
	var req updatePurchaseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	po, err := h.service.UpdatePurchaseOrderStatus(c.UserContext(), poID, req.Status, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order updated", "data": po})
}

func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	poID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid purchase order ID")
	}
	var req receiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	po, err := h.service.ReceivePurchaseOrderItems(c.UserContext(), poID, req.Lines, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Items received", "data": po})
}

func (h *PurchaseHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	poID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid purchase order ID")
	}

	po, err := h.service.GetPurchaseOrder(c.UserContext(), poID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(po)
}
