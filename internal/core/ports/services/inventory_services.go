package services

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ItemCatalogSvc manages catalog entries. Stock is never written here.
type ItemCatalogSvc interface {
	CreateItem(ctx context.Context, req dto.CreateItemRequest, userID string) (*domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error)
	UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest, userID string) (*domain.Item, error)
}

// StockSvc applies signed stock deltas.
type StockSvc interface {
	AdjustStock(ctx context.Context, itemID string, delta decimal.Decimal, userID string) (*domain.Item, error)
	AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal) error
	ListLowStockItems(ctx context.Context) ([]domain.Item, error)
}

// PricingSvc resolves party-specific prices.
type PricingSvc interface {
	// EffectivePrice returns the exact (item, party, location) override or the item's base price.
	EffectivePrice(ctx context.Context, itemID, partyID, location string) (decimal.Decimal, error)
	SetCustomerRate(ctx context.Context, req dto.SetCustomerRateRequest, userID string) (*domain.CustomerItemRate, error)
	ListCustomerRates(ctx context.Context, partyID string) ([]domain.CustomerItemRate, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	ItemCatalogSvc
	StockSvc
	PricingSvc
}
