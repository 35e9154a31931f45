package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// before reports whether a sorts ahead of b in (date, created_at, id) descending order.
func txnBefore(a, b domain.Transaction) bool {
	if !a.TransactionDate.Equal(b.TransactionDate) {
		return a.TransactionDate.After(b.TransactionDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.TransactionID > b.TransactionID
}

func (s *Store) filterTransactions(keep func(domain.Transaction) bool) []domain.Transaction {
	s.mu.RLock()
	out := []domain.Transaction{}
	for _, t := range s.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return txnBefore(out[i], out[j]) })
	return out
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transactions {
		if t.TransactionID == transactionID {
			return &t, nil
		}
	}
	return nil, notFound("transaction", transactionID)
}

func (s *Store) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	return page(s.filterTransactions(func(domain.Transaction) bool { return true }), limit, offset), nil
}

func (s *Store) ListTransactionsByParty(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 100
	}
	var cursor *domain.Transaction
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &domain.Transaction{TransactionID: c.ID, TransactionDate: c.Date}
		cursor.CreatedAt = c.CreatedAt
	}
	rows := s.filterTransactions(func(t domain.Transaction) bool {
		if t.PartyID == nil || *t.PartyID != partyID {
			return false
		}
		return cursor == nil || txnBefore(*cursor, t)
	})

	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
	}
	return rows, next, nil
}

func (s *Store) ListTransactionsByVoucher(ctx context.Context, voucherID string) ([]domain.Transaction, error) {
	return s.filterTransactions(func(t domain.Transaction) bool {
		return t.VoucherID != nil && *t.VoucherID == voucherID
	}), nil
}

func (s *Store) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	mt, err := s.txFrom(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.TransactionID == txn.TransactionID {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
	}
	if txn.PartyID != nil {
		if _, ok := s.parties[*txn.PartyID]; !ok {
			return notFound("party", *txn.PartyID)
		}
	}
	s.transactions = append(s.transactions, txn)
	n := len(s.transactions)
	mt.undo = append(mt.undo, func() { s.transactions = s.transactions[:n-1] })
	return nil
}
