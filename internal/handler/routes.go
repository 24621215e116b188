package handler

import (
	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every HTTP handler the API mounts.
type Handlers struct {
	Inventory      *InventoryHandler
	Transfer       *TransferHandler
	Transformation *TransformationHandler
	Purchase       *PurchaseHandler
	Catalog        *CatalogHandler
	Dashboard      *DashboardHandler
}

// SetupRoutes mounts the /api/v1 surface. Every route requires a token.
func SetupRoutes(app *fiber.App, jwtCfg config.JWTConfig, h Handlers) {
	api := app.Group("/api/v1")
	protected := api.Group("", middleware.RequireAuth(jwtCfg))
	priv := middleware.RequirePrivilege

	// Catalog
	protected.Get("/privileges", h.Catalog.GetPrivileges)
	protected.Get("/components", h.Catalog.GetComponents)
	protected.Get("/components/:id", h.Catalog.GetComponent)
	protected.Post("/components", priv(model.PrivCatalogManage), h.Catalog.CreateComponent)
	protected.Get("/products", h.Catalog.GetProducts)
	protected.Get("/products/:id", h.Catalog.GetProduct)
	protected.Post("/products", priv(model.PrivCatalogManage), h.Catalog.CreateProduct)
	protected.Get("/products/:id/bom", h.Catalog.GetBillOfMaterials)
	protected.Put("/products/:id/bom", priv(model.PrivCatalogManage), h.Catalog.ReplaceBillOfMaterials)
	protected.Put("/items/:kind/:itemId/active", priv(model.PrivCatalogManage), h.Catalog.SetActive)
	protected.Get("/locations", h.Catalog.GetLocations)
	protected.Post("/locations", priv(model.PrivCatalogManage), h.Catalog.CreateLocation)

	// Stock
	protected.Get("/locations/:locationId/stock/:kind/:itemId", priv(model.PrivStockView), h.Inventory.GetStock)
	protected.Put("/locations/:locationId/stock/:kind/:itemId/minimum", priv(model.PrivStockThreshold), h.Inventory.SetMinimumStock)
	protected.Put("/locations/:locationId/stock/:kind/:itemId/full", priv(model.PrivStockThreshold), h.Inventory.SetFullStock)
	protected.Get("/locations/:locationId/low-stock", middleware.RequireAnyPrivilege(model.PrivStockView, model.PrivDashboardView), h.Dashboard.GetLowStock)

	// Ledger
	protected.Get("/ledger", priv(model.PrivLedgerView), h.Inventory.GetLedgerEntries)
	protected.Post("/ledger", priv(model.PrivLedgerRecord), h.Inventory.RecordTransaction)
	protected.Get("/ledger/verify", priv(model.PrivLedgerVerify), h.Inventory.VerifyLedger)

	// Transfers
	protected.Get("/transfers", priv(model.PrivTransferView), h.Transfer.GetTransfers)
	protected.Get("/transfers/:id", priv(model.PrivTransferView), h.Transfer.GetTransfer)
	protected.Post("/transfers", priv(model.PrivTransferCreate), h.Transfer.CreateTransfer)
	protected.Post("/transfers/:id/items", priv(model.PrivTransferCreate), h.Transfer.AddItem)
	protected.Put("/transfers/:id/status", priv(model.PrivTransferUpdate), h.Transfer.UpdateStatus)
	protected.Post("/transfers/:id/execute", priv(model.PrivTransferUpdate), h.Transfer.Execute)

	// Transformations
	protected.Post("/transformations", priv(model.PrivTransformExecute), h.Transformation.Execute)

	// Purchasing
	protected.Get("/purchase-orders/:id", priv(model.PrivPurchaseView), h.Purchase.GetPurchaseOrder)
	protected.Post("/purchase-orders", priv(model.PrivPurchaseCreate), h.Purchase.CreatePurchaseOrder)
	protected.Post("/purchase-orders/:id/items", priv(model.PrivPurchaseCreate), h.Purchase.AddItem)
	protected.Put("/purchase-orders/:id/status", priv(model.PrivPurchaseCreate), h.Purchase.UpdateStatus)
	protected.Post("/purchase-orders/:id/receive", priv(model.PrivPurchaseReceive), h.Purchase.Receive)

	// Dashboard
	protected.Get("/dashboard/stats", priv(model.PrivDashboardView), h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", priv(model.PrivDashboardView), h.Dashboard.GetStockMovement)
}
