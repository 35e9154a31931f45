package memory

import (
	"context"
	"testing"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveParty(ctx, domain.Party{PartyID: "p1", Code: "P-001", Name: "Acme", Status: domain.PartyActive}))
	require.NoError(t, s.SaveItem(ctx, domain.Item{ItemID: "i1", Code: "I-001", Name: "Cement", ItemType: domain.ItemGoods,
		CurrentStock: decimal.NewFromInt(100), IsActive: true}))
}

func TestRollbackUndoesWritesInReverse(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ApplyBalanceDeltaInTx(ctx, tx, "p1", decimal.NewFromInt(1000), "u1", time.Now()))
	require.NoError(t, s.AdjustStockInTx(ctx, tx, "i1", decimal.NewFromInt(-10)))
	require.NoError(t, s.AdjustStockInTx(ctx, tx, "i1", decimal.NewFromInt(-5)))
	partyID := "p1"
	require.NoError(t, s.SaveTransactionInTx(ctx, tx, domain.Transaction{TransactionID: "t1", PartyID: &partyID}))
	require.NoError(t, s.Rollback(ctx, tx))

	p, err := s.FindPartyByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.CurrentBalance.IsZero())
	it, err := s.FindItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "100", it.CurrentStock.String())
	txns, err := s.ListTransactions(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.AdjustStockInTx(ctx, tx, "i1", decimal.NewFromInt(-10)))
	require.NoError(t, s.ApplyBalanceDeltaInTx(ctx, tx, "p1", decimal.NewFromInt(1180), "u1", time.Now()))

	// manual adjustment and catalog edits while the voucher transaction is open
	require.NoError(t, s.AdjustStock(ctx, "i1", decimal.NewFromInt(5)))
	it, err := s.FindItemByID(ctx, "i1")
	require.NoError(t, err)
	it.Name = "OPC Cement 53"
	require.NoError(t, s.UpdateItem(ctx, *it))
	p, err := s.FindPartyByID(ctx, "p1")
	require.NoError(t, err)
	p.Name = "Acme Infra"
	require.NoError(t, s.UpdateParty(ctx, *p))

	require.NoError(t, s.Rollback(ctx, tx))

	it, err = s.FindItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "105", it.CurrentStock.String())
	assert.Equal(t, "OPC Cement 53", it.Name)
	p, err = s.FindPartyByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.CurrentBalance.IsZero())
	assert.Equal(t, "Acme Infra", p.Name)
}

func TestRollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.AdjustStockInTx(ctx, tx, "i1", decimal.NewFromInt(5)))
	require.NoError(t, s.Commit(ctx, tx))
	assert.ErrorIs(t, tx.Rollback(ctx), pgx.ErrTxClosed)
	require.NoError(t, s.Rollback(ctx, tx))

	it, err := s.FindItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "105", it.CurrentStock.String())

	// the lock must have been released by Commit
	tx2, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Rollback(ctx, tx2))
}

func TestBalanceDeltaMissingParty(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer s.Rollback(ctx, tx)

	err = s.ApplyBalanceDeltaInTx(ctx, tx, "nope", decimal.NewFromInt(1), "u1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCustomerRateUpsertKeepsRateID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)

	first, err := s.UpsertCustomerRate(ctx, domain.CustomerItemRate{RateID: "r1", ItemID: "i1", PartyID: "p1", Rate: decimal.NewFromInt(450)})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLocation, first.Location)

	second, err := s.UpsertCustomerRate(ctx, domain.CustomerItemRate{RateID: "r2", ItemID: "i1", PartyID: "p1", Location: "default", Rate: decimal.NewFromInt(470)})
	require.NoError(t, err)
	assert.Equal(t, "r1", second.RateID)
	assert.Equal(t, "470", second.Rate.String())

	rates, err := s.ListCustomerRatesByParty(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, rates, 1)
}

func TestCountInScopeOn(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	day := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveTrip(ctx, domain.Trip{TripID: "a", AuditFields: domain.AuditFields{CreatedAt: day.Add(-24 * time.Hour)}}))
	require.NoError(t, s.SaveTrip(ctx, domain.Trip{TripID: "b", AuditFields: domain.AuditFields{CreatedAt: day}}))

	n, err := s.CountInScopeOn(ctx, domain.ScopeTrips, day)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.CountInScope(ctx, domain.ScopeTrips)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
