package handler

import (
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransferHandler struct {
	service service.TransferService
}

func NewTransferHandler(s service.TransferService) *TransferHandler {
	return &TransferHandler{service: s}
}

type updateTransferStatusRequest struct {
	Status model.TransferStatus `json:"status"`
	At     *time.Time           `json:"at"`
}

func (h *TransferHandler) CreateTransfer(c *fiber.Ctx) error {
	var req service.CreateTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.service.CreateBulkTransferOrder(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transfer created", "data": order})
}

func (h *TransferHandler) AddItem(c *fiber.Ctx) error {
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transfer ID")
	}
	var req service.AddTransferItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	item, err := h.service.AddBulkTransferItem(c.UserContext(), transferID, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added", "data": item})
}

func (h *TransferHandler) UpdateStatus(c *fiber.Ctx) error {
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transfer ID")
	}
	var req updateTransferStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.service.UpdateTransferStatus(c.UserContext(), transferID, req.Status, req.At, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer updated", "data": order})
}

func (h *TransferHandler) Execute(c *fiber.Ctx) error {
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transfer ID")
	}

	order, err := h.service.ExecuteTransfer(c.UserContext(), transferID, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer completed", "data": order})
}

func (h *TransferHandler) GetTransfer(c *fiber.Ctx) error {
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transfer ID")
	}

	order, err := h.service.GetTransfer(c.UserContext(), transferID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// GetTransfers lists transfers, optionally filtered by ?status=
func (h *TransferHandler) GetTransfers(c *fiber.Ctx) error {
	status := model.TransferStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return badRequest(c, "Invalid status")
	}

	orders, err := h.service.ListTransfers(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}
