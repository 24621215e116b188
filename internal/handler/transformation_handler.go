package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransformationHandler struct {
	service service.TransformationService
}

func NewTransformationHandler(s service.TransformationService) *TransformationHandler {
	return &TransformationHandler{service: s}
}

func (h *TransformationHandler) Execute(c *fiber.Ctx) error {
	var req service.TransformationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.ExecuteTransformation(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transformation recorded", "data": result})
}
