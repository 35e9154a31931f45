package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// transactionService appends ledger rows and keeps party balances in step with them.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryWithTx
	partyRepo       portsrepo.PartyBalanceSupport
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryWithTx, partyRepo portsrepo.PartyBalanceSupport) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		partyRepo:       partyRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *transactionService) ListPartyTransactions(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	txns, next, err := s.transactionRepo.ListTransactionsByParty(ctx, partyID, limit, nextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list party transactions", slog.String("party_id", partyID))
		}
		return nil, nil, fmt.Errorf("failed to list transactions for party %s: %w", partyID, err)
	}
	return txns, next, nil
}

// RecordTransaction builds the ledger row from the request and records it in its
// own database transaction. Payment mode defaults to cash and status to completed.
func (s *transactionService) RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if !req.TransactionType.IsValid() {
		return nil, apperrors.NewFieldError("transactionType", "unknown transaction type")
	}
	now := s.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		PartyID:         emptyToNil(req.PartyID),
		VoucherID:       emptyToNil(req.VoucherID),
		TransactionType: req.TransactionType,
		PaymentMode:     req.PaymentMode,
		Amount:          req.Amount,
		Status:          req.Status,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
		TransactionDate: now,
		AuditFields:     newAudit(userID, now),
	}
	if txn.PaymentMode == "" {
		txn.PaymentMode = domain.PaymentCash
	}
	if txn.Status == "" {
		txn.Status = domain.TransactionCompleted
	}
	if req.TransactionDate != nil {
		txn.TransactionDate = *req.TransactionDate
	}

	tx, err := s.transactionRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction")
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	defer s.transactionRepo.Rollback(ctx, tx) // no-op after Commit

	if err := s.RecordTransactionInTx(ctx, tx, txn); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.TransactionType)),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// RecordTransactionInTx persists txn and, for completed party transactions, applies
// the balance delta as one atomic increment inside tx.
func (s *transactionService) RecordTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if err := accounting.ValidateTransactionAmount(txn.Amount); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if !txn.PaymentMode.IsValid() || !txn.Status.IsValid() {
		return fmt.Errorf("%w: invalid payment mode %q or status %q", apperrors.ErrValidation, txn.PaymentMode, txn.Status)
	}

	if err := s.transactionRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	if !txn.AffectsBalance() {
		return nil
	}
	delta, ok := accounting.BalanceDelta(txn.TransactionType, txn.Amount)
	if !ok {
		return nil
	}
	if err := s.partyRepo.ApplyBalanceDeltaInTx(ctx, tx, *txn.PartyID, delta, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to apply party balance delta", slog.String("party_id", *txn.PartyID))
		}
		return fmt.Errorf("failed to update balance of party %s: %w", *txn.PartyID, err)
	}
	s.LogDebug(ctx, "Party balance updated",
		slog.String("party_id", *txn.PartyID),
		slog.String("delta", delta.String()))
	return nil
}

// emptyToNil treats an empty optional ID as absent.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
