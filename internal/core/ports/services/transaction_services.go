package services

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/jackc/pgx/v5"
)

// TransactionReaderSvc defines read operations for the ledger
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error)
	ListPartyTransactions(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionRecorderSvc appends ledger rows and applies the party balance delta.
type TransactionRecorderSvc interface {
	// RecordTransaction runs in its own database transaction.
	RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// RecordTransactionInTx joins the caller's transaction. txn must already carry
	// its ID, audit fields and defaults.
	RecordTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionRecorderSvc
}
