package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logg := config.NewLogger(cfg.Log)

	// 2. Setup Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		logg.Fatal(err)
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := model.AutoMigrate(db); err != nil {
		logg.Fatalf("failed to migrate: %v", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(logg)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	bomRepo := repository.NewBOMRepo()
	stockRepo := repository.NewStockRepo()
	ledgerRepo := repository.NewLedgerRepo()
	transferRepo := repository.NewTransferRepo()
	poRepo := repository.NewPurchaseOrderRepo()

	resolver := service.NewStockResolver(stockRepo, bomRepo)
	ledger := service.NewLedger(ledgerRepo, stockRepo, bomRepo, logg)

	invService := service.NewInventoryService(ledger, resolver, stockRepo, ledgerRepo, itemRepo, locationRepo, db, wsHub, logg)
	transferService := service.NewTransferService(ledger, resolver, transferRepo, ledgerRepo, itemRepo, locationRepo, db, wsHub, logg,
		service.WithTransitionPolicy(service.PolicyByName(cfg.Engine.TransferPolicy)))
	transformService := service.NewTransformationService(ledger, itemRepo, locationRepo, db, wsHub, logg)
	purchaseService := service.NewPurchaseService(ledger, poRepo, itemRepo, locationRepo, db, wsHub, logg)
	catalogService := service.NewCatalogService(itemRepo, bomRepo, locationRepo, db, wsHub, logg)
	dashService := service.NewDashboardService(resolver, stockRepo, ledgerRepo, itemRepo, locationRepo, db)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.HTTP.AppName,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	handler.SetupRoutes(app, cfg.JWT, handler.Handlers{
		Inventory:      handler.NewInventoryHandler(invService),
		Transfer:       handler.NewTransferHandler(transferService),
		Transformation: handler.NewTransformationHandler(transformService),
		Purchase:       handler.NewPurchaseHandler(purchaseService),
		Catalog:        handler.NewCatalogHandler(catalogService),
		Dashboard:      handler.NewDashboardHandler(dashService),
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
			logg.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logg.Fatalf("Server forced to shutdown: %v", err)
	}

	logg.Info("Server exited")
}
