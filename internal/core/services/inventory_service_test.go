package services_test

import (
	"context"
	"testing"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/core/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/notify"
	"github.com/bluestar-trading/erp_backend/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture(t *testing.T) (*memory.Store, *recordingDispatcher, *domain.Item, *domain.Item) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	dispatcher := &recordingDispatcher{}
	repos := memory.NewRepositoryProvider(store)
	codeGen := services.NewCodeGeneratorService(repos.SequenceRepo)
	svc := services.NewInventoryService(repos.ItemRepo, codeGen, services.WithLowStockAlerts(dispatcher))

	diesel, err := svc.CreateItem(ctx, dto.CreateItemRequest{
		Name: "HSD Diesel", ItemType: domain.ItemGoods, Category: domain.CategoryDiesel, Unit: "litre",
		BasePrice: decimal.NewFromInt(92), OpeningStock: decimal.NewFromInt(50), MinStockLevel: decimal.NewFromInt(20),
	}, "u1")
	require.NoError(t, err)
	freight, err := svc.CreateItem(ctx, dto.CreateItemRequest{
		Name: "Freight", ItemType: domain.ItemService, Category: domain.CategoryTransport, Unit: "trip",
		BasePrice: decimal.NewFromInt(4000),
	}, "u1")
	require.NoError(t, err)
	return store, dispatcher, diesel, freight
}

func TestInventory_AdjustStockAlertsWhenLow(t *testing.T) {
	ctx := context.Background()
	store, dispatcher, diesel, _ := newInventoryFixture(t)
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewInventoryService(repos.ItemRepo, services.NewCodeGeneratorService(repos.SequenceRepo), services.WithLowStockAlerts(dispatcher))

	item, err := svc.AdjustStock(ctx, diesel.ItemID, decimal.NewFromInt(-20), "u1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(item.CurrentStock))
	assert.Empty(t, dispatcher.on(notify.ChannelInApp))

	item, err = svc.AdjustStock(ctx, diesel.ItemID, decimal.NewFromInt(-15), "u1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(item.CurrentStock))
	alerts := dispatcher.on(notify.ChannelInApp)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.NotificationLowStock, alerts[0].Notification.Type)
	assert.Nil(t, alerts[0].Notification.UserID)

	// Restocking never alerts, even while still below the minimum.
	_, err = svc.AdjustStock(ctx, diesel.ItemID, decimal.NewFromInt(1), "u1")
	require.NoError(t, err)
	assert.Len(t, dispatcher.on(notify.ChannelInApp), 1)
}

func TestInventory_ZeroAdjustmentRejected(t *testing.T) {
	store, dispatcher, diesel, _ := newInventoryFixture(t)
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewInventoryService(repos.ItemRepo, services.NewCodeGeneratorService(repos.SequenceRepo), services.WithLowStockAlerts(dispatcher))

	_, err := svc.AdjustStock(context.Background(), diesel.ItemID, decimal.Zero, "u1")

	var fe *apperrors.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "delta", fe.Field)
}

func TestInventory_UpdateItemNeverTouchesStock(t *testing.T) {
	ctx := context.Background()
	store, _, diesel, _ := newInventoryFixture(t)
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewInventoryService(repos.ItemRepo, services.NewCodeGeneratorService(repos.SequenceRepo))

	price := decimal.NewFromInt(95)
	_, err := svc.UpdateItem(ctx, diesel.ItemID, dto.UpdateItemRequest{BasePrice: &price}, "u2")
	require.NoError(t, err)

	stored, err := svc.GetItem(ctx, diesel.ItemID)
	require.NoError(t, err)
	assert.True(t, price.Equal(stored.BasePrice))
	assert.True(t, decimal.NewFromInt(50).Equal(stored.CurrentStock))
	assert.Equal(t, "I-001", stored.Code)
	assert.Equal(t, "u2", stored.LastUpdatedBy)
}

func TestInventory_LowStockIgnoresServices(t *testing.T) {
	store, _, diesel, freight := newInventoryFixture(t)
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewInventoryService(repos.ItemRepo, services.NewCodeGeneratorService(repos.SequenceRepo))
	ctx := context.Background()

	_, err := svc.AdjustStock(ctx, diesel.ItemID, decimal.NewFromInt(-45), "u1")
	require.NoError(t, err)

	low, err := svc.ListLowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, diesel.ItemID, low[0].ItemID)
	assert.NotEqual(t, freight.ItemID, low[0].ItemID)
	assert.Equal(t, "I-002", freight.Code)
}

func TestInventory_CustomerRateRequiresKnownParty(t *testing.T) {
	store, _, diesel, _ := newInventoryFixture(t)
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewInventoryService(repos.ItemRepo, services.NewCodeGeneratorService(repos.SequenceRepo))

	_, err := svc.SetCustomerRate(context.Background(), dto.SetCustomerRateRequest{
		ItemID: diesel.ItemID, PartyID: "ghost", Rate: decimal.NewFromInt(90),
	}, "u1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
