package repositories

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ItemReader defines read operations for the inventory catalog
type ItemReader interface {
	FindItemByID(ctx context.Context, itemID string) (*domain.Item, error)

	// FindItemsByIDs returns the items found; missing IDs are simply absent from the map.
	FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error)

	ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error)

	// ListLowStockItems returns active goods with current_stock <= min_stock_level.
	ListLowStockItems(ctx context.Context) ([]domain.Item, error)
}

// ItemWriter defines write operations for the inventory catalog
type ItemWriter interface {
	SaveItem(ctx context.Context, item domain.Item) error

	// UpdateItem updates catalog fields. It never touches current_stock.
	UpdateItem(ctx context.Context, item domain.Item) error
}

// StockSupport applies signed stock deltas as single-statement increments.
// There is no lower bound; stock may go negative.
type StockSupport interface {
	AdjustStock(ctx context.Context, itemID string, delta decimal.Decimal) error
	AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal) error
}

// CustomerRateStore persists party-specific price overrides keyed by (item, party, location).
type CustomerRateStore interface {
	// FindCustomerRate matches the exact key only. Returns apperrors.ErrNotFound on miss.
	FindCustomerRate(ctx context.Context, itemID, partyID, location string) (*domain.CustomerItemRate, error)

	// UpsertCustomerRate overwrites the rate when the key exists, else inserts.
	UpsertCustomerRate(ctx context.Context, rate domain.CustomerItemRate) (*domain.CustomerItemRate, error)

	ListCustomerRatesByParty(ctx context.Context, partyID string) ([]domain.CustomerItemRate, error)
}

// ItemRepositoryFacade combines all item-related repository interfaces
type ItemRepositoryFacade interface {
	ItemReader
	ItemWriter
	StockSupport
	CustomerRateStore
}
