package service

import (
	"testing"

	"go-inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowStockIncludesDerivedProducts(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")
	a := f.component("A")
	b := f.component("B")
	p := f.product("P", need(a, 2))
	f.adjust(a, store, 3)
	f.adjust(b, store, 10)

	require.NoError(t, f.inventory.SetMinimumStock(f.ctx, store, model.ComponentRef(a), 5, tester))
	require.NoError(t, f.inventory.SetMinimumStock(f.ctx, store, model.ComponentRef(b), 5, tester))
	require.NoError(t, f.inventory.SetMinimumStock(f.ctx, store, model.ProductRef(p), 2, tester))

	low, err := f.dashboard.GetLowStock(f.ctx, store)
	require.NoError(t, err)
	require.Len(t, low, 2)

	byKind := map[model.ItemKind]LowStockItem{}
	for _, item := range low {
		byKind[item.Item.Kind] = item
	}
	assert.Equal(t, 3, byKind[model.ItemKindComponent].CurrentQty)
	assert.Equal(t, 1, byKind[model.ItemKindProduct].CurrentQty)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")
	c, err := f.catalog.CreateComponent(f.ctx, &CreateItemRequest{SKU: "A", Name: "A", UnitCost: decimal.RequireFromString("1.25")}, tester)
	require.NoError(t, err)
	f.product("P", need(c.ID, 1))
	f.adjust(c.ID, store, 4)

	stats, err := f.dashboard.GetDashboardStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalComponents)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalLocations)
	assert.True(t, decimal.NewFromInt(5).Equal(stats.TotalValuation))
}

func TestStockMovement(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")
	a := f.component("A")
	f.adjust(a, store, 7)
	f.adjust(a, store, -2)

	data, err := f.dashboard.GetStockMovement(f.ctx, 7)
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, 7, data[0].Inbound)
	assert.Equal(t, 2, data[0].Outbound)
}
