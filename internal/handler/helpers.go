package handler

import (
	"errors"
	"strconv"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}

func getUserName(c *fiber.Ctx) string {
	userName, ok := c.Locals("user_name").(string)
	if !ok {
		return "Unknown"
	}
	return userName
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail, ok := c.Locals("user_email").(string)
	if !ok {
		return ""
	}
	return userEmail
}

func actorFrom(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:    getUserID(c),
		Name:  getUserName(c),
		Email: getUserEmail(c),
	}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// itemRefParam reads :kind and :itemId route params.
func itemRefParam(c *fiber.Ctx) (model.ItemRef, bool) {
	kind := model.ItemKind(c.Params("kind"))
	id, err := uuid.Parse(c.Params("itemId"))
	if err != nil || !kind.Valid() {
		return model.ItemRef{}, false
	}
	return model.ItemRef{Kind: kind, ID: id}, true
}

func queryTime(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, repository.ErrUnknownItemKind):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrSKUExists),
		errors.Is(err, service.ErrTransitionNotAllowed),
		errors.Is(err, service.ErrTransferNotEditable):
		status = fiber.StatusConflict
	}
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
