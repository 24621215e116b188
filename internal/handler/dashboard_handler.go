package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := queryInt(c, "days", 7)

	data, err := h.service.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetLowStock lists items under their minimum at a location
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	locationID, err := parseUUIDParam(c, "locationId")
	if err != nil {
		return badRequest(c, "Invalid location ID")
	}

	items, err := h.service.GetLowStock(c.UserContext(), locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
