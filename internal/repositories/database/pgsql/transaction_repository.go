package pgsql

import (
	"context"
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/bluestar-trading/erp_backend/internal/models"
	"github.com/bluestar-trading/erp_backend/internal/utils/mapping"
	"github.com/bluestar-trading/erp_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, party_id, voucher_id, transaction_type, payment_mode, amount, status,
	reference_number, description, transaction_date, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.PartyID, &m.VoucherID, &m.TransactionType, &m.PaymentMode, &m.Amount, &m.Status,
		&m.ReferenceNumber, &m.Description, &m.TransactionDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return out, nil
}

func toDomainTransactions(ms []models.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTransaction(m)
	}
	return out
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, translateError(err, "transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	limit, offset = normalizePage(limit, offset)
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC
		LIMIT $1 OFFSET $2;
	`
	ms, err := r.queryTransactions(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return toDomainTransactions(ms), nil
}

// ListTransactionsByParty fetches one extra row to decide whether a next page exists.
func (r *PgxTransactionRepository) ListTransactionsByParty(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	limit, _ = normalizePage(limit, 0)

	args := []any{partyID, limit + 1}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE party_id = $1`
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (transaction_date, created_at, transaction_id) < ($3, $4, $5)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += `
		ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC
		LIMIT $2;`

	ms, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
	}
	return toDomainTransactions(ms), next, nil
}

func (r *PgxTransactionRepository) ListTransactionsByVoucher(ctx context.Context, voucherID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE voucher_id = $1 ORDER BY created_at;`
	ms, err := r.queryTransactions(ctx, query, voucherID)
	if err != nil {
		return nil, err
	}
	return toDomainTransactions(ms), nil
}

func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID, m.PartyID, m.VoucherID, m.TransactionType, m.PaymentMode, m.Amount, m.Status,
		m.ReferenceNumber, m.Description, m.TransactionDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return translateError(err, "insert transaction "+m.TransactionID)
}
