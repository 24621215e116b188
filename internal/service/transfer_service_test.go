package service

import (
	"testing"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) transfer(from, to uuid.UUID, items ...AddTransferItemRequest) *model.BulkTransferOrder {
	f.t.Helper()
	order, err := f.transfers.CreateBulkTransferOrder(f.ctx, &CreateTransferRequest{FromLocationID: from, ToLocationID: to}, tester)
	require.NoError(f.t, err)
	for i := range items {
		_, err := f.transfers.AddBulkTransferItem(f.ctx, order.ID, &items[i], tester)
		require.NoError(f.t, err)
	}
	return order
}

func TestTransferCompleteAndRevert(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	a := f.component("A")
	f.adjust(a, l1, 10)

	order := f.transfer(l1, l2, AddTransferItemRequest{Item: model.ComponentRef(a), Quantity: 5})

	done, err := f.transfers.ExecuteTransfer(f.ctx, order.ID, tester)
	require.NoError(t, err)
	assert.Equal(t, model.TransferCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, 5, f.componentStock(a, l1))
	assert.Equal(t, 5, f.componentStock(a, l2))
	f.requireConsistent()

	back, err := f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferDelivered, nil, tester)
	require.NoError(t, err)
	assert.Equal(t, model.TransferDelivered, back.Status)
	assert.Nil(t, back.CompletedAt)
	assert.NotNil(t, back.DeliveredAt)
	assert.Equal(t, 10, f.componentStock(a, l1))
	assert.Equal(t, 0, f.componentStock(a, l2))
	f.requireConsistent()

	entries, err := f.inventory.GetLedgerEntries(f.ctx, repository.LedgerFilter{Reference: done.TransferNumber})
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, model.TxTransfer, e.Kind)
	}
}

func TestTransferExpandsProducts(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	c := f.component("C")
	p := f.product("P", need(c, 3))
	f.adjust(c, l1, 6)

	order := f.transfer(l1, l2, AddTransferItemRequest{Item: model.ProductRef(p), Quantity: 2})

	loaded, err := f.transfers.GetTransfer(f.ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].AvailableStockSnapshot)
	assert.Equal(t, "P", loaded.Items[0].SKUSnapshot)

	_, err = f.transfers.ExecuteTransfer(f.ctx, order.ID, tester)
	require.NoError(t, err)
	assert.Equal(t, 0, f.componentStock(c, l1))
	assert.Equal(t, 6, f.componentStock(c, l2))
	assert.Equal(t, 2, f.productStock(p, l2))

	productEntries, err := f.inventory.GetLedgerEntries(f.ctx, repository.LedgerFilter{Item: &model.ItemRef{Kind: model.ItemKindProduct, ID: p}})
	require.NoError(t, err)
	assert.Empty(t, productEntries)
	f.requireConsistent()
}

func TestTransferReversalIgnoresLaterRecipeChanges(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	c := f.component("C")
	d := f.component("D")
	p := f.product("P", need(c, 1))
	f.adjust(c, l1, 4)

	order := f.transfer(l1, l2, AddTransferItemRequest{Item: model.ProductRef(p), Quantity: 4})
	_, err := f.transfers.ExecuteTransfer(f.ctx, order.ID, tester)
	require.NoError(t, err)

	_, err = f.catalog.ReplaceBillOfMaterials(f.ctx, p, []ComponentQty{need(d, 2)}, tester)
	require.NoError(t, err)

	_, err = f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferCancelled, nil, tester)
	require.NoError(t, err)
	assert.Equal(t, 4, f.componentStock(c, l1))
	assert.Equal(t, 0, f.componentStock(c, l2))
	assert.Equal(t, 0, f.componentStock(d, l1))
	f.requireConsistent()
}

func TestTransferSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	a := f.component("A")
	f.adjust(a, l1, 10)
	order := f.transfer(l1, l2, AddTransferItemRequest{Item: model.ComponentRef(a), Quantity: 3})

	_, err := f.transfers.ExecuteTransfer(f.ctx, order.ID, tester)
	require.NoError(t, err)
	again, err := f.transfers.ExecuteTransfer(f.ctx, order.ID, tester)
	require.NoError(t, err)

	assert.Equal(t, model.TransferCompleted, again.Status)
	assert.Equal(t, 7, f.componentStock(a, l1))
	assert.Equal(t, 3, f.componentStock(a, l2))

	entries, err := f.inventory.GetLedgerEntries(f.ctx, repository.LedgerFilter{Reference: order.TransferNumber})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTransferReversalKeepsManualCorrections(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	a := f.component("A")
	f.adjust(a, l1, 10)
	order := f.transfer(l1, l2, AddTransferItemRequest{Item: model.ComponentRef(a), Quantity: 5})

	_, err := f.transfers.ExecuteTransfer(f.ctx, order.ID, tester)
	require.NoError(t, err)

	// An operator books a correction against the transfer number.
	_, err = f.inventory.Record(f.ctx, &RecordRequest{
		Kind:          model.TxTransfer,
		Item:          model.ComponentRef(a),
		LocationID:    l2,
		QuantityDelta: -1,
		Reference:     order.TransferNumber,
	}, tester)
	require.NoError(t, err)
	assert.Equal(t, 5, f.componentStock(a, l1))
	assert.Equal(t, 4, f.componentStock(a, l2))

	_, err = f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferDelivered, nil, tester)
	require.NoError(t, err)
	assert.Equal(t, 10, f.componentStock(a, l1))
	assert.Equal(t, -1, f.componentStock(a, l2))

	entries, err := f.inventory.GetLedgerEntries(f.ctx, repository.LedgerFilter{Reference: order.TransferNumber})
	require.NoError(t, err)
	var manual int
	for _, e := range entries {
		if e.TransferID == nil {
			manual++
		} else {
			assert.Equal(t, order.ID, *e.TransferID)
		}
	}
	assert.Equal(t, 1, manual)
	f.requireConsistent()
}

func TestTransferRecompleteAfterRevert(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	a := f.component("A")
	f.adjust(a, l1, 10)
	order := f.transfer(l1, l2, AddTransferItemRequest{Item: model.ComponentRef(a), Quantity: 4})

	for _, status := range []model.TransferStatus{
		model.TransferCompleted, model.TransferInTransit, model.TransferCompleted,
	} {
		_, err := f.transfers.UpdateTransferStatus(f.ctx, order.ID, status, nil, tester)
		require.NoError(t, err)
	}
	assert.Equal(t, 6, f.componentStock(a, l1))
	assert.Equal(t, 4, f.componentStock(a, l2))
	f.requireConsistent()
}

func TestTransferTimestamps(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return fixed }))
	l1 := f.location("L1")
	l2 := f.location("L2")
	order := f.transfer(l1, l2)
	assert.Contains(t, order.TransferNumber, "TR-20260301-")

	moved, err := f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferInTransit, nil, tester)
	require.NoError(t, err)
	assert.Nil(t, moved.ShippedAt)

	shipped := fixed.Add(-time.Hour)
	moved, err = f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferCreated, nil, tester)
	require.NoError(t, err)
	moved, err = f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferInTransit, &shipped, tester)
	require.NoError(t, err)
	require.NotNil(t, moved.ShippedAt)
	assert.True(t, shipped.Equal(*moved.ShippedAt))

	moved, err = f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferDelivered, nil, tester)
	require.NoError(t, err)
	require.NotNil(t, moved.DeliveredAt)
	assert.True(t, fixed.Equal(*moved.DeliveredAt))
}

func TestTransferItemsFrozenAfterCreated(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	a := f.component("A")
	order := f.transfer(l1, l2)

	_, err := f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferInTransit, nil, tester)
	require.NoError(t, err)
	_, err = f.transfers.AddBulkTransferItem(f.ctx, order.ID, &AddTransferItemRequest{Item: model.ComponentRef(a), Quantity: 1}, tester)
	assert.ErrorIs(t, err, ErrTransferNotEditable)
}

func TestTransferWarnsOnShortStock(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	a := f.component("A")
	f.adjust(a, l1, 1)

	f.transfer(l1, l2, AddTransferItemRequest{Item: model.ComponentRef(a), Quantity: 5})
	entry := f.log.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["available"])
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")

	_, err := f.transfers.CreateBulkTransferOrder(f.ctx, &CreateTransferRequest{FromLocationID: l1, ToLocationID: l1}, tester)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.transfers.CreateBulkTransferOrder(f.ctx, &CreateTransferRequest{FromLocationID: l1, ToLocationID: uuid.New()}, tester)
	assert.ErrorIs(t, err, ErrLocationNotFound)

	_, err = f.transfers.UpdateTransferStatus(f.ctx, uuid.New(), model.TransferCompleted, nil, tester)
	assert.ErrorIs(t, err, ErrTransferNotFound)

	_, err = f.transfers.UpdateTransferStatus(f.ctx, uuid.New(), "Lost", nil, tester)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCuratedPolicyRejectsLeavingCancelled(t *testing.T) {
	f := newFixture(t, WithTransitionPolicy(CuratedTransitions))
	l1 := f.location("L1")
	l2 := f.location("L2")
	order := f.transfer(l1, l2)

	_, err := f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferCancelled, nil, tester)
	require.NoError(t, err)
	_, err = f.transfers.UpdateTransferStatus(f.ctx, order.ID, model.TransferCreated, nil, tester)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestListTransfersByStatus(t *testing.T) {
	f := newFixture(t)
	l1 := f.location("L1")
	l2 := f.location("L2")
	first := f.transfer(l1, l2)
	f.transfer(l2, l1)
	_, err := f.transfers.UpdateTransferStatus(f.ctx, first.ID, model.TransferInTransit, nil, tester)
	require.NoError(t, err)

	all, err := f.transfers.ListTransfers(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inTransit, err := f.transfers.ListTransfers(f.ctx, model.TransferInTransit)
	require.NoError(t, err)
	require.Len(t, inTransit, 1)
	assert.Equal(t, first.ID, inTransit[0].ID)
}
