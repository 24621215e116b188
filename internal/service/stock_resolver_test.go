package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorDiv(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{10, 2, 5},
		{3, 2, 1},
		{0, 3, 0},
		{-1, 2, -1},
		{-4, 2, -2},
		{-5, 3, -2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, floorDiv(c.a, c.b), "%d / %d", c.a, c.b)
	}
}

func TestProductStockIsBottleneckOfComponents(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")
	a := f.component("A")
	b := f.component("B")
	p := f.product("P", need(a, 2), need(b, 1))

	f.adjust(a, store, 10)
	f.adjust(b, store, 3)
	assert.Equal(t, 3, f.productStock(p, store))

	f.adjust(b, store, -3)
	assert.Equal(t, 0, f.productStock(p, store))
}

func TestProductStockWithoutBillOfMaterialsIsZero(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")
	p := f.product("EMPTY")

	assert.Equal(t, 0, f.productStock(p, store))
}

func TestProductStockFollowsNegativeComponent(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")
	a := f.component("A")
	p := f.product("P", need(a, 2))

	f.adjust(a, store, -3)
	assert.Equal(t, -2, f.productStock(p, store))
}

func TestComponentStockIsPerLocation(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")
	warehouse := f.location("Warehouse")
	a := f.component("A")

	f.adjust(a, warehouse, 7)
	assert.Equal(t, 7, f.componentStock(a, warehouse))
	assert.Equal(t, 0, f.componentStock(a, store))
}

func TestStockOfUnknownItemIsNotFound(t *testing.T) {
	f := newFixture(t)
	store := f.location("Store")

	_, err := f.inventory.GetProductStock(f.ctx, uuid.New(), store)
	require.ErrorIs(t, err, ErrItemNotFound)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.inventory.GetComponentStock(f.ctx, uuid.New(), store)
	require.ErrorIs(t, err, ErrItemNotFound)
}
