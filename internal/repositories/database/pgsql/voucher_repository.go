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
)

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for vouchers and their line items.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryWithTx {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryWithTx = (*PgxVoucherRepository)(nil)

const voucherColumns = `voucher_id, voucher_number, voucher_type, voucher_date, party_id, trip_id,
	vehicle_number, driver_name, place_of_supply, status, total_amount, tax_amount, grand_total,
	notes, approved_by, created_at, created_by, last_updated_at, last_updated_by`

const voucherItemColumns = `voucher_item_id, voucher_id, line_no, item_id, description, quantity, rate, tax_rate, amount`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID, &m.VoucherNumber, &m.VoucherType, &m.VoucherDate, &m.PartyID, &m.TripID,
		&m.VehicleNumber, &m.DriverName, &m.PlaceOfSupply, &m.Status, &m.TotalAmount, &m.TaxAmount, &m.GrandTotal,
		&m.Notes, &m.ApprovedBy, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func loadVoucherItems(ctx context.Context, q querier, voucherIDs []string) (map[string][]models.VoucherItem, error) {
	out := make(map[string][]models.VoucherItem, len(voucherIDs))
	if len(voucherIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + voucherItemColumns + ` FROM voucher_items WHERE voucher_id = ANY($1) ORDER BY voucher_id, line_no;`
	rows, err := q.Query(ctx, query, voucherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query voucher items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.VoucherItem
		if err := rows.Scan(&it.VoucherItemID, &it.VoucherID, &it.LineNo, &it.ItemID, &it.Description,
			&it.Quantity, &it.Rate, &it.TaxRate, &it.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan voucher item row: %w", err)
		}
		out[it.VoucherID] = append(out[it.VoucherID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher item rows: %w", err)
	}
	return out, nil
}

func findVoucher(ctx context.Context, q querier, voucherID string, forUpdate bool) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanVoucher(q.QueryRow(ctx, query, voucherID))
	if err != nil {
		return nil, translateError(err, "voucher "+voucherID)
	}
	items, err := loadVoucherItems(ctx, q, []string{voucherID})
	if err != nil {
		return nil, err
	}
	v := mapping.ToDomainVoucher(m, items[voucherID])
	return &v, nil
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return findVoucher(ctx, r.Pool, voucherID, false)
}

// FindVoucherByIDForUpdate locks the header row; concurrent status changes queue behind it.
func (r *PgxVoucherRepository) FindVoucherByIDForUpdate(ctx context.Context, tx pgx.Tx, voucherID string) (*domain.Voucher, error) {
	return findVoucher(ctx, tx, voucherID, true)
}

func (r *PgxVoucherRepository) collect(ctx context.Context, rows pgx.Rows, withItems bool) ([]domain.Voucher, error) {
	defer rows.Close()
	headers := []models.Voucher{}
	ids := []string{}
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		headers = append(headers, m)
		ids = append(ids, m.VoucherID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}
	rows.Close()

	items := map[string][]models.VoucherItem{}
	if withItems {
		var err error
		if items, err = loadVoucherItems(ctx, r.Pool, ids); err != nil {
			return nil, err
		}
	}
	vouchers := make([]domain.Voucher, 0, len(headers))
	for _, h := range headers {
		vouchers = append(vouchers, mapping.ToDomainVoucher(h, items[h.VoucherID]))
	}
	return vouchers, nil
}

func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, voucherType *domain.VoucherType, limit int, offset int) ([]domain.Voucher, error) {
	limit, offset = normalizePage(limit, offset)
	var filter *string
	if voucherType != nil {
		s := string(*voucherType)
		filter = &s
	}
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE ($1::text IS NULL OR voucher_type = $1)
		ORDER BY created_at DESC, voucher_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	return r.collect(ctx, rows, true)
}

func (r *PgxVoucherRepository) FindIssuedWithoutLedgerEntry(ctx context.Context) ([]domain.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers v
		WHERE v.voucher_type IN ('invoice', 'bill')
		  AND v.status = 'issued'
		  AND v.grand_total > 0
		  AND NOT EXISTS (SELECT 1 FROM transactions t WHERE t.voucher_id = v.voucher_id)
		ORDER BY v.created_at;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers without ledger entry: %w", err)
	}
	return r.collect(ctx, rows, false)
}

// SaveVoucherInTx inserts the header, then all lines in a single batch.
func (r *PgxVoucherRepository) SaveVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)
	headerQuery := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := tx.Exec(ctx, headerQuery,
		m.VoucherID, m.VoucherNumber, m.VoucherType, m.VoucherDate, m.PartyID, m.TripID,
		m.VehicleNumber, m.DriverName, m.PlaceOfSupply, m.Status, m.TotalAmount, m.TaxAmount, m.GrandTotal,
		m.Notes, m.ApprovedBy, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "insert voucher "+m.VoucherNumber)
	}

	batch := &pgx.Batch{}
	itemQuery := `INSERT INTO voucher_items (` + voucherItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	for _, it := range mapping.ToModelVoucherItems(m.VoucherID, voucher.Items) {
		batch.Queue(itemQuery, it.VoucherItemID, it.VoucherID, it.LineNo, it.ItemID, it.Description,
			it.Quantity, it.Rate, it.TaxRate, it.Amount)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "insert items of voucher "+m.VoucherNumber)
	}
	return nil
}

func (r *PgxVoucherRepository) UpdateVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)
	query := `
		UPDATE vouchers
		SET status = $1, notes = $2, approved_by = $3, total_amount = $4, tax_amount = $5,
		    grand_total = $6, last_updated_at = $7, last_updated_by = $8
		WHERE voucher_id = $9;
	`
	cmdTag, err := tx.Exec(ctx, query, m.Status, m.Notes, m.ApprovedBy, m.TotalAmount, m.TaxAmount,
		m.GrandTotal, m.LastUpdatedAt, m.LastUpdatedBy, m.VoucherID)
	if err != nil {
		return translateError(err, "update voucher "+m.VoucherID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("voucher %s: %w", m.VoucherID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxVoucherRepository) UpdateVoucherItemAmountsInTx(ctx context.Context, tx pgx.Tx, items []domain.VoucherItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`UPDATE voucher_items SET amount = $1 WHERE voucher_item_id = $2;`, it.Amount, it.VoucherItemID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to update voucher item amounts", err)
	}
	return nil
}
