package main

import (
	"context"
	"flag"
	"os"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/database"

	"github.com/sirupsen/logrus"
)

// ledger-verify compares every component's ledger sum with its stored
// quantity and exits non-zero when they disagree.
func main() {
	timeout := flag.Duration("timeout", 0, "abort after this long (0 = no limit)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logg := config.NewLogger(cfg.Log)

	db, err := database.Open(cfg.Database)
	if err != nil {
		logg.Fatal(err)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	itemRepo := repository.NewItemRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	bomRepo := repository.NewBOMRepo()
	stockRepo := repository.NewStockRepo()
	ledgerRepo := repository.NewLedgerRepo()

	resolver := service.NewStockResolver(stockRepo, bomRepo)
	ledger := service.NewLedger(ledgerRepo, stockRepo, bomRepo, logg)
	invService := service.NewInventoryService(ledger, resolver, stockRepo, ledgerRepo, itemRepo, locationRepo, db, nil, logg)

	drift, err := invService.VerifyLedger(ctx)
	if err != nil {
		logg.Fatalf("❌ Verification failed: %v", err)
	}
	if len(drift) == 0 {
		logg.Info("✅ Ledger is consistent with stored stock")
		return
	}

	for _, d := range drift {
		logg.WithFields(logrus.Fields{
			"location_id":  d.LocationID,
			"component_id": d.ComponentID,
			"ledger_sum":   d.LedgerSum,
			"stored_qty":   d.StoredQty,
		}).Error("stock drift")
	}
	logg.Errorf("❌ %d location/component pairs drifted", len(drift))
	os.Exit(1)
}
