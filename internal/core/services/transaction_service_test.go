package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/core/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryWithTx = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit, offset)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByParty(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, partyID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsByVoucher(ctx context.Context, voucherID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, voucherID)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

// --- Mock PartyBalanceSupport ---
type MockPartyBalance struct {
	mock.Mock
}

var _ portsrepo.PartyBalanceSupport = (*MockPartyBalance)(nil)

func (m *MockPartyBalance) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, partyID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, partyID, delta, userID, now)
	return args.Error(0)
}

// fakeTx stands in for a database transaction; the mocks never touch it.
type fakeTx struct {
	pgx.Tx
}

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo *MockTransactionRepository
	mockParties *MockPartyBalance
	service     portssvc.TransactionSvcFacade
	tx          pgx.Tx
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockParties = new(MockPartyBalance)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockParties)
	suite.tx = &fakeTx{}
}

func decimalEq(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString(want)) })
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_BalanceDeltaPerType() {
	tests := []struct {
		txnType domain.TransactionType
		delta   string
	}{
		{domain.TransactionSale, "250.50"},
		{domain.TransactionPurchase, "-250.50"},
		{domain.TransactionPaymentIn, "-250.50"},
		{domain.TransactionPaymentOut, "250.50"},
	}
	for _, tt := range tests {
		suite.Run(string(tt.txnType), func() {
			suite.SetupTest()
			ctx := context.Background()
			partyID := "party-1"

			suite.mockTxnRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
			suite.mockTxnRepo.On("SaveTransactionInTx", ctx, suite.tx, mock.MatchedBy(func(txn domain.Transaction) bool {
				return txn.TransactionType == tt.txnType &&
					txn.PaymentMode == domain.PaymentCash &&
					txn.Status == domain.TransactionCompleted &&
					*txn.PartyID == partyID
			})).Return(nil).Once()
			suite.mockParties.On("ApplyBalanceDeltaInTx", ctx, suite.tx, partyID, decimalEq(tt.delta), "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
			suite.mockTxnRepo.On("Commit", ctx, suite.tx).Return(nil).Once()
			suite.mockTxnRepo.On("Rollback", ctx, suite.tx).Return(nil).Once()

			txn, err := suite.service.RecordTransaction(ctx, dto.CreateTransactionRequest{
				PartyID:         &partyID,
				TransactionType: tt.txnType,
				Amount:          decimal.RequireFromString("250.50"),
			}, "user-1")

			suite.Require().NoError(err)
			suite.NotEmpty(txn.TransactionID)
			suite.mockTxnRepo.AssertExpectations(suite.T())
			suite.mockParties.AssertExpectations(suite.T())
		})
	}
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_NoBalanceChange() {
	partyID := "party-1"
	tests := map[string]dto.CreateTransactionRequest{
		"contra":  {PartyID: &partyID, TransactionType: domain.TransactionContra, Amount: decimal.NewFromInt(10)},
		"expense": {PartyID: &partyID, TransactionType: domain.TransactionExpense, Amount: decimal.NewFromInt(10)},
		"pending": {PartyID: &partyID, TransactionType: domain.TransactionSale, Amount: decimal.NewFromInt(10), Status: domain.TransactionPending},
		"no party": {TransactionType: domain.TransactionPaymentIn, Amount: decimal.NewFromInt(10)},
	}
	for name, req := range tests {
		suite.Run(name, func() {
			suite.SetupTest()
			ctx := context.Background()

			suite.mockTxnRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
			suite.mockTxnRepo.On("SaveTransactionInTx", ctx, suite.tx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
			suite.mockTxnRepo.On("Commit", ctx, suite.tx).Return(nil).Once()
			suite.mockTxnRepo.On("Rollback", ctx, suite.tx).Return(nil).Once()

			_, err := suite.service.RecordTransaction(ctx, req, "user-1")

			suite.Require().NoError(err)
			suite.mockParties.AssertNotCalled(suite.T(), "ApplyBalanceDeltaInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			suite.mockTxnRepo.AssertExpectations(suite.T())
		})
	}
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_NonPositiveAmount() {
	ctx := context.Background()
	partyID := "party-1"

	suite.mockTxnRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockTxnRepo.On("Rollback", ctx, suite.tx).Return(nil).Once()

	txn, err := suite.service.RecordTransaction(ctx, dto.CreateTransactionRequest{
		PartyID:         &partyID,
		TransactionType: domain.TransactionPaymentIn,
		Amount:          decimal.Zero,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_UnknownType() {
	txn, err := suite.service.RecordTransaction(context.Background(), dto.CreateTransactionRequest{
		TransactionType: "refund",
		Amount:          decimal.NewFromInt(5),
	}, "user-1")

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_MissingPartyRollsBack() {
	ctx := context.Background()
	partyID := "ghost"

	suite.mockTxnRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockTxnRepo.On("SaveTransactionInTx", ctx, suite.tx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockParties.On("ApplyBalanceDeltaInTx", ctx, suite.tx, partyID, mock.Anything, "user-1", mock.Anything).
		Return(apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("Rollback", ctx, suite.tx).Return(nil).Once()

	txn, err := suite.service.RecordTransaction(ctx, dto.CreateTransactionRequest{
		PartyID:         &partyID,
		TransactionType: domain.TransactionPaymentOut,
		Amount:          decimal.NewFromInt(75),
	}, "user-1")

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestGetTransaction_NotFound() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.GetTransaction(ctx, "missing")

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestListPartyTransactions_PassesCursor() {
	ctx := context.Background()
	token := "abc"
	next := "def"
	rows := []domain.Transaction{{TransactionID: "t1"}}
	suite.mockTxnRepo.On("ListTransactionsByParty", ctx, "party-1", 20, &token).Return(rows, &next, nil).Once()

	got, gotNext, err := suite.service.ListPartyTransactions(ctx, "party-1", 20, &token)

	suite.Require().NoError(err)
	suite.Equal(rows, got)
	suite.Equal("def", *gotNext)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_RepoError() {
	ctx := context.Background()
	suite.mockTxnRepo.On("ListTransactions", ctx, 10, 0).Return(nil, assert.AnError).Once()

	txns, err := suite.service.ListTransactions(ctx, 10, 0)

	suite.Nil(txns)
	suite.ErrorIs(err, assert.AnError)
}
