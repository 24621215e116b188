package service

import (
	"context"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture is a fully wired engine over a private in-memory database.
type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	log *test.Hook

	ledger    *Ledger
	resolver  *StockResolver
	inventory InventoryService
	transfers TransferService
	transform TransformationService
	purchases PurchaseService
	catalog   CatalogService
	dashboard DashboardService
}

func newFixture(t *testing.T, opts ...TransferOption) *fixture {
	t.Helper()

	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	itemRepo := repository.NewItemRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	bomRepo := repository.NewBOMRepo()
	stockRepo := repository.NewStockRepo()
	ledgerRepo := repository.NewLedgerRepo()

	resolver := NewStockResolver(stockRepo, bomRepo)
	ledger := NewLedger(ledgerRepo, stockRepo, bomRepo, logger)

	return &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		log:       hook,
		ledger:    ledger,
		resolver:  resolver,
		inventory: NewInventoryService(ledger, resolver, stockRepo, ledgerRepo, itemRepo, locationRepo, db, nil, logger),
		transfers: NewTransferService(ledger, resolver, repository.NewTransferRepo(), ledgerRepo, itemRepo, locationRepo, db, nil, logger, opts...),
		transform: NewTransformationService(ledger, itemRepo, locationRepo, db, nil, logger),
		purchases: NewPurchaseService(ledger, repository.NewPurchaseOrderRepo(), itemRepo, locationRepo, db, nil, logger),
		catalog:   NewCatalogService(itemRepo, bomRepo, locationRepo, db, nil, logger),
		dashboard: NewDashboardService(resolver, stockRepo, ledgerRepo, itemRepo, locationRepo, db),
	}
}

var tester = Actor{ID: "tester", Name: "Tester", Email: "tester@example.com"}

func (f *fixture) location(name string) uuid.UUID {
	f.t.Helper()
	loc, err := f.catalog.CreateLocation(f.ctx, &CreateLocationRequest{Name: name}, tester)
	require.NoError(f.t, err)
	return loc.ID
}

func (f *fixture) component(sku string) uuid.UUID {
	f.t.Helper()
	c, err := f.catalog.CreateComponent(f.ctx, &CreateItemRequest{SKU: sku, Name: "Component " + sku}, tester)
	require.NoError(f.t, err)
	return c.ID
}

func (f *fixture) product(sku string, bom ...ComponentQty) uuid.UUID {
	f.t.Helper()
	p, err := f.catalog.CreateProduct(f.ctx, &CreateItemRequest{SKU: sku, Name: "Product " + sku}, tester)
	require.NoError(f.t, err)
	if len(bom) > 0 {
		_, err = f.catalog.ReplaceBillOfMaterials(f.ctx, p.ID, bom, tester)
		require.NoError(f.t, err)
	}
	return p.ID
}

// adjust records an Adjustment of delta for a component.
func (f *fixture) adjust(componentID, locationID uuid.UUID, delta int) {
	f.t.Helper()
	_, err := f.inventory.Record(f.ctx, &RecordRequest{
		Kind:          model.TxAdjustment,
		Item:          model.ComponentRef(componentID),
		LocationID:    locationID,
		QuantityDelta: delta,
	}, tester)
	require.NoError(f.t, err)
}

func (f *fixture) componentStock(componentID, locationID uuid.UUID) int {
	f.t.Helper()
	qty, err := f.inventory.GetComponentStock(f.ctx, componentID, locationID)
	require.NoError(f.t, err)
	return qty
}

func (f *fixture) productStock(productID, locationID uuid.UUID) int {
	f.t.Helper()
	qty, err := f.inventory.GetProductStock(f.ctx, productID, locationID)
	require.NoError(f.t, err)
	return qty
}

// requireConsistent asserts the ledger-sum invariant over the whole store.
func (f *fixture) requireConsistent() {
	f.t.Helper()
	drift, err := f.inventory.VerifyLedger(f.ctx)
	require.NoError(f.t, err)
	require.Empty(f.t, drift)
}

func need(id uuid.UUID, qty int) ComponentQty {
	return ComponentQty{ComponentID: id, Quantity: qty}
}
