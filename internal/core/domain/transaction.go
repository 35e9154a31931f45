package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the ledger category of a transaction.
type TransactionType string

const (
	TransactionSale       TransactionType = "sale"
	TransactionPurchase   TransactionType = "purchase"
	TransactionPaymentIn  TransactionType = "payment_in"
	TransactionPaymentOut TransactionType = "payment_out"
	TransactionContra     TransactionType = "contra"
	TransactionExpense    TransactionType = "expense"
)

// PaymentMode is how a transaction was settled.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "cash"
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentCheque       PaymentMode = "cheque"
	PaymentCredit       PaymentMode = "credit"
	PaymentUPI          PaymentMode = "upi"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction is an immutable ledger record.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`
	PartyID         *string           `json:"partyID,omitempty"`
	VoucherID       *string           `json:"voucherID,omitempty"`
	TransactionType TransactionType   `json:"transactionType"`
	PaymentMode     PaymentMode       `json:"paymentMode"`
	Amount          decimal.Decimal   `json:"amount"`
	Status          TransactionStatus `json:"status"`
	ReferenceNumber *string           `json:"referenceNumber,omitempty"`
	Description     *string           `json:"description,omitempty"`
	TransactionDate time.Time         `json:"transactionDate"`
	AuditFields
}

// AffectsBalance reports whether recording this transaction moves a party balance.
func (t *Transaction) AffectsBalance() bool {
	return t.PartyID != nil && *t.PartyID != "" && t.Status == TransactionCompleted
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionPaymentIn, TransactionPaymentOut, TransactionContra, TransactionExpense:
		return true
	}
	return false
}

func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCheque, PaymentCredit, PaymentUPI:
		return true
	}
	return false
}

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionCancelled:
		return true
	}
	return false
}
