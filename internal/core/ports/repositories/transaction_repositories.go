package repositories

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions orders by transaction_date descending.
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error)

	// ListTransactionsByParty pages a party statement with an opaque cursor.
	ListTransactionsByParty(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	ListTransactionsByVoucher(ctx context.Context, voucherID string) ([]domain.Transaction, error)
}

// TransactionWriter appends ledger rows. Rows are never updated or deleted.
type TransactionWriter interface {
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
