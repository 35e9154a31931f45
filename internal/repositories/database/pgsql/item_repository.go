package pgsql

import (
	"context"
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/bluestar-trading/erp_backend/internal/models"
	"github.com/bluestar-trading/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxItemRepository struct {
	BaseRepository
}

func newPgxItemRepository(pool *pgxpool.Pool) portsrepo.ItemRepositoryFacade {
	return &PgxItemRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

const itemColumns = `item_id, code, name, item_type, category, unit, hsn_code, tax_rate, base_price,
	current_stock, min_stock_level, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanItem(row pgx.Row) (models.Item, error) {
	var m models.Item
	err := row.Scan(
		&m.ItemID, &m.Code, &m.Name, &m.ItemType, &m.Category, &m.Unit, &m.HSNCode, &m.TaxRate, &m.BasePrice,
		&m.CurrentStock, &m.MinStockLevel, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, mapping.ToDomainItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

func (r *PgxItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1;`
	m, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, translateError(err, "item "+itemID)
	}
	item := mapping.ToDomainItem(m)
	return &item, nil
}

func (r *PgxItemRepository) FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error) {
	out := make(map[string]domain.Item, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	items, err := r.queryItems(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = ANY($1);`, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ItemID] = it
	}
	return out, nil
}

func (r *PgxItemRepository) ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error) {
	limit, offset = normalizePage(limit, offset)
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name ASC LIMIT $1 OFFSET $2;`, limit, offset)
}

func (r *PgxItemRepository) ListLowStockItems(ctx context.Context) ([]domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE is_active AND item_type = 'goods' AND current_stock <= min_stock_level
		ORDER BY current_stock - min_stock_level ASC, name ASC;
	`
	return r.queryItems(ctx, query)
}

func (r *PgxItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	m := mapping.ToModelItem(item)
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID, m.Code, m.Name, m.ItemType, m.Category, m.Unit, m.HSNCode, m.TaxRate, m.BasePrice,
		m.CurrentStock, m.MinStockLevel, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return translateError(err, "save item "+m.Code)
}

func (r *PgxItemRepository) UpdateItem(ctx context.Context, item domain.Item) error {
	m := mapping.ToModelItem(item)
	query := `
		UPDATE items
		SET name = $1, unit = $2, hsn_code = $3, tax_rate = $4, base_price = $5,
		    min_stock_level = $6, is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE item_id = $10;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name, m.Unit, m.HSNCode, m.TaxRate, m.BasePrice,
		m.MinStockLevel, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy, m.ItemID,
	)
	if err != nil {
		return translateError(err, "update item "+m.ItemID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", m.ItemID, apperrors.ErrNotFound)
	}
	return nil
}

const adjustStockQuery = `UPDATE items SET current_stock = current_stock + $1 WHERE item_id = $2;`

func (r *PgxItemRepository) AdjustStock(ctx context.Context, itemID string, delta decimal.Decimal) error {
	cmdTag, err := r.Pool.Exec(ctx, adjustStockQuery, delta, itemID)
	if err != nil {
		return translateError(err, "adjust stock of item "+itemID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxItemRepository) AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal) error {
	cmdTag, err := tx.Exec(ctx, adjustStockQuery, delta, itemID)
	if err != nil {
		return translateError(err, "adjust stock of item "+itemID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, apperrors.ErrNotFound)
	}
	return nil
}

const rateColumns = `rate_id, item_id, party_id, location, rate, created_at, created_by, last_updated_at, last_updated_by`

func scanRate(row pgx.Row) (models.CustomerItemRate, error) {
	var m models.CustomerItemRate
	err := row.Scan(&m.RateID, &m.ItemID, &m.PartyID, &m.Location, &m.Rate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *PgxItemRepository) FindCustomerRate(ctx context.Context, itemID, partyID, location string) (*domain.CustomerItemRate, error) {
	query := `SELECT ` + rateColumns + ` FROM customer_item_rates WHERE item_id = $1 AND party_id = $2 AND location = $3;`
	m, err := scanRate(r.Pool.QueryRow(ctx, query, itemID, partyID, domain.NormalizeLocation(location)))
	if err != nil {
		return nil, translateError(err, "customer rate")
	}
	rate := mapping.ToDomainCustomerItemRate(m)
	return &rate, nil
}

// UpsertCustomerRate keeps the original rate_id and creation audit when the key already exists.
func (r *PgxItemRepository) UpsertCustomerRate(ctx context.Context, rate domain.CustomerItemRate) (*domain.CustomerItemRate, error) {
	m := mapping.ToModelCustomerItemRate(rate)
	query := `
		INSERT INTO customer_item_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (item_id, party_id, location) DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + rateColumns + `;
	`
	saved, err := scanRate(r.Pool.QueryRow(ctx, query,
		m.RateID, m.ItemID, m.PartyID, m.Location, m.Rate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	))
	if err != nil {
		return nil, translateError(err, "upsert customer rate")
	}
	out := mapping.ToDomainCustomerItemRate(saved)
	return &out, nil
}

func (r *PgxItemRepository) ListCustomerRatesByParty(ctx context.Context, partyID string) ([]domain.CustomerItemRate, error) {
	query := `SELECT ` + rateColumns + ` FROM customer_item_rates WHERE party_id = $1 ORDER BY item_id, location;`
	rows, err := r.Pool.Query(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer rates: %w", err)
	}
	defer rows.Close()

	rates := []domain.CustomerItemRate{}
	for rows.Next() {
		m, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer rate row: %w", err)
		}
		rates = append(rates, mapping.ToDomainCustomerItemRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rate rows: %w", err)
	}
	return rates, nil
}
