package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = config.JWTConfig{Secret: "handler-test-secret", Issuer: "handler-test", TTL: time.Hour}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	logger, _ := test.NewNullLogger()

	itemRepo := repository.NewItemRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	bomRepo := repository.NewBOMRepo()
	stockRepo := repository.NewStockRepo()
	ledgerRepo := repository.NewLedgerRepo()
	resolver := service.NewStockResolver(stockRepo, bomRepo)
	ledger := service.NewLedger(ledgerRepo, stockRepo, bomRepo, logger)

	app := fiber.New()
	SetupRoutes(app, testJWT, Handlers{
		Inventory:      NewInventoryHandler(service.NewInventoryService(ledger, resolver, stockRepo, ledgerRepo, itemRepo, locationRepo, db, nil, logger)),
		Transfer:       NewTransferHandler(service.NewTransferService(ledger, resolver, repository.NewTransferRepo(), ledgerRepo, itemRepo, locationRepo, db, nil, logger, service.WithTransitionPolicy(service.CuratedTransitions))),
		Transformation: NewTransformationHandler(service.NewTransformationService(ledger, itemRepo, locationRepo, db, nil, logger)),
		Purchase:       NewPurchaseHandler(service.NewPurchaseService(ledger, repository.NewPurchaseOrderRepo(), itemRepo, locationRepo, db, nil, logger)),
		Catalog:        NewCatalogHandler(service.NewCatalogService(itemRepo, bomRepo, locationRepo, db, nil, logger)),
		Dashboard:      NewDashboardHandler(service.NewDashboardService(resolver, stockRepo, ledgerRepo, itemRepo, locationRepo, db)),
	})
	return app
}

func token(t *testing.T, privileges ...string) string {
	t.Helper()
	tok, err := jwt.GenerateToken(testJWT, "terminal-1", "Terminal 1", "pos@example.com", privileges)
	require.NoError(t, err)
	return tok
}

func adminToken(t *testing.T) string {
	privs, _ := model.RolePrivileges(model.RoleAdmin)
	return token(t, privs...)
}

// call sends a JSON request and decodes the JSON response into out (if non-nil).
func call(t *testing.T, app *fiber.App, method, path, tok string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type created[T any] struct {
	Data T `json:"data"`
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/v1/components", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/v1/components", "garbage", nil, nil))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/v1/components", token(t), nil, nil))
}

func TestRoutesCheckPrivileges(t *testing.T) {
	app := newTestApp(t)
	viewer := token(t, model.PrivStockView)

	status := call(t, app, http.MethodPost, "/api/v1/ledger", viewer, map[string]any{}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRecordAndReadStock(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t)

	var loc created[model.Location]
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/locations", admin, map[string]any{"name": "Store"}, &loc))
	var comp created[model.Component]
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/components", admin, map[string]any{"sku": "A", "name": "Bolt"}, &comp))

	record := map[string]any{
		"kind":           model.TxPurchase,
		"item":           map[string]any{"item_kind": model.ItemKindComponent, "item_id": comp.Data.ID},
		"location_id":    loc.Data.ID,
		"quantity_delta": 12,
	}
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/ledger", admin, record, nil))

	var stock map[string]any
	path := "/api/v1/locations/" + loc.Data.ID.String() + "/stock/Component/" + comp.Data.ID.String()
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, path, admin, nil, &stock))
	assert.EqualValues(t, 12, stock["quantity"])

	var verify map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/v1/ledger/verify", admin, nil, &verify))
	assert.Equal(t, true, verify["consistent"])
}

func TestErrorStatusMapping(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t)

	// validation
	status := call(t, app, http.MethodPost, "/api/v1/ledger", admin, map[string]any{"kind": "Sale"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// not found
	status = call(t, app, http.MethodGet, "/api/v1/transfers/"+"00000000-0000-0000-0000-000000000001", admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// unknown product
	status = call(t, app, http.MethodGet, "/api/v1/locations/"+uuid.NewString()+"/stock/Product/"+uuid.NewString(), admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// bad id
	status = call(t, app, http.MethodGet, "/api/v1/transfers/not-a-uuid", admin, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// duplicate SKU
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/components", admin, map[string]any{"sku": "A", "name": "Bolt"}, nil))
	status = call(t, app, http.MethodPost, "/api/v1/components", admin, map[string]any{"sku": "A", "name": "Bolt"}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestTransferTransitionConflict(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t)

	var l1, l2 created[model.Location]
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/locations", admin, map[string]any{"name": "L1"}, &l1))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/locations", admin, map[string]any{"name": "L2"}, &l2))

	var order created[model.BulkTransferOrder]
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/transfers", admin,
		map[string]any{"from_location_id": l1.Data.ID, "to_location_id": l2.Data.ID}, &order))

	statusPath := "/api/v1/transfers/" + order.Data.ID.String() + "/status"
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, statusPath, admin, map[string]any{"status": model.TransferCancelled}, nil))
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPut, statusPath, admin, map[string]any{"status": model.TransferCreated}, nil))
}
