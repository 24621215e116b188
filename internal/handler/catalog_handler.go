package handler

import (
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type bomRequest struct {
	Lines []service.ComponentQty `json:"lines"`
}

type activeRequest struct {
	Active bool `json:"active"`
}

func (h *CatalogHandler) CreateComponent(c *fiber.Ctx) error {
	var req service.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	component, err := h.service.CreateComponent(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Component created", "data": component})
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) GetComponents(c *fiber.Ctx) error {
	components, err := h.service.ListComponents(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(components)
}

func (h *CatalogHandler) GetComponent(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid component ID")
	}
	component, err := h.service.GetComponent(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(component)
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) GetBillOfMaterials(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	lines, err := h.service.GetBillOfMaterials(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lines)
}

func (h *CatalogHandler) ReplaceBillOfMaterials(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req bomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	lines, err := h.service.ReplaceBillOfMaterials(c.UserContext(), id, req.Lines, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bill of materials replaced", "data": lines})
}

// SetActive toggles an item. Route: /items/:kind/:itemId/active
func (h *CatalogHandler) SetActive(c *fiber.Ctx) error {
	ref, ok := itemRefParam(c)
	if !ok {
		return badRequest(c, "Invalid item")
	}
	var req activeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := h.service.SetItemActive(c.UserContext(), ref, req.Active, actorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated"})
}

func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var req service.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	location, err := h.service.CreateLocation(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Location created", "data": location})
}

func (h *CatalogHandler) GetLocations(c *fiber.Ctx) error {
	locations, err := h.service.ListLocations(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(locations)
}

// GetPrivileges lists every privilege a token can carry.
func (h *CatalogHandler) GetPrivileges(c *fiber.Ctx) error {
	return c.JSON(model.DefaultPrivileges)
}
