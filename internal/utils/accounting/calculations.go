package accounting

import (
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceDelta returns the signed change a transaction makes to its party's balance.
// Sales and outgoing payments raise what the party owes us; purchases and incoming
// payments lower it. Contra and expense entries carry no party delta, reported by ok=false.
func BalanceDelta(txnType domain.TransactionType, amount decimal.Decimal) (delta decimal.Decimal, ok bool) {
	switch txnType {
	case domain.TransactionSale, domain.TransactionPaymentOut:
		return amount, true
	case domain.TransactionPurchase, domain.TransactionPaymentIn:
		return amount.Neg(), true
	default:
		return decimal.Zero, false
	}
}

// ValidateTransactionAmount checks a ledger amount is strictly positive.
func ValidateTransactionAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", amount.String())
	}
	return nil
}
