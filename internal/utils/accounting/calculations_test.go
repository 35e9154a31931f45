package accounting_test

import (
	"testing"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceDelta(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	tests := []struct {
		txnType domain.TransactionType
		want    decimal.Decimal
		wantOK  bool
	}{
		{domain.TransactionSale, decimal.NewFromInt(1000), true},
		{domain.TransactionPurchase, decimal.NewFromInt(-1000), true},
		{domain.TransactionPaymentIn, decimal.NewFromInt(-1000), true},
		{domain.TransactionPaymentOut, decimal.NewFromInt(1000), true},
		{domain.TransactionContra, decimal.Zero, false},
		{domain.TransactionExpense, decimal.Zero, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.txnType), func(t *testing.T) {
			got, ok := accounting.BalanceDelta(tt.txnType, amount)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestValidateTransactionAmount(t *testing.T) {
	assert.NoError(t, accounting.ValidateTransactionAmount(decimal.NewFromFloat(0.01)))
	assert.Error(t, accounting.ValidateTransactionAmount(decimal.Zero))
	assert.Error(t, accounting.ValidateTransactionAmount(decimal.NewFromInt(-5)))
}
