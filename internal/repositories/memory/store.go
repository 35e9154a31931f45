// Package memory is an in-process implementation of every repository port.
// It backs the server when no database URL is configured and drives scenario tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type rateKey struct {
	itemID, partyID, location string
}

// Store holds all tables. txMu serializes write transactions the way row locks
// would; mu guards the maps themselves.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	parties       map[string]domain.Party
	items         map[string]domain.Item
	rates         map[rateKey]domain.CustomerItemRate
	vouchers      map[string]domain.Voucher
	voucherOrder  []string
	transactions  []domain.Transaction
	trips         map[string]domain.Trip
	tripOrder     []string
	notifications []domain.Notification
	users         map[string]domain.User
	userOrder     []string
}

func NewStore() *Store {
	return &Store{
		parties:  make(map[string]domain.Party),
		items:    make(map[string]domain.Item),
		rates:    make(map[rateKey]domain.CustomerItemRate),
		vouchers: make(map[string]domain.Voucher),
		trips:    make(map[string]domain.Trip),
		users:    make(map[string]domain.User),
	}
}

// NewRepositoryProvider exposes one Store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PartyRepo:        s,
		ItemRepo:         s,
		VoucherRepo:      s,
		TransactionRepo:  s,
		SequenceRepo:     s,
		TripRepo:         s,
		NotificationRepo: s,
		UserRepo:         s,
		ReportingRepo:    s,
	}
}

var (
	_ portsrepo.PartyRepositoryFacade       = (*Store)(nil)
	_ portsrepo.ItemRepositoryFacade        = (*Store)(nil)
	_ portsrepo.VoucherRepositoryWithTx     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryWithTx = (*Store)(nil)
	_ portsrepo.SequenceRepository          = (*Store)(nil)
	_ portsrepo.TripRepositoryFacade        = (*Store)(nil)
	_ portsrepo.NotificationRepository      = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade        = (*Store)(nil)
	_ portsrepo.ReportingRepository         = (*Store)(nil)
)

// memTx satisfies pgx.Tx for the methods the services call (Commit, Rollback).
// Writes are applied immediately and undone in reverse order on rollback.
type memTx struct {
	pgx.Tx
	store *Store
	undo  []func()
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.undo = nil
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()
	t.undo = nil
	t.store.txMu.Unlock()
	return nil
}

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	return &memTx{store: s}, nil
}

func (s *Store) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

func (s *Store) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

func (s *Store) txFrom(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s {
		return nil, fmt.Errorf("memory store: foreign transaction %T", tx)
	}
	if mt.done {
		return nil, pgx.ErrTxClosed
	}
	return mt, nil
}

func page[T any](rows []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, apperrors.ErrNotFound)
}
