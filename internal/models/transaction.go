package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the append-only transactions table.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	PartyID         *string         `db:"party_id"`
	VoucherID       *string         `db:"voucher_id"`
	TransactionType string          `db:"transaction_type"`
	PaymentMode     string          `db:"payment_mode"`
	Amount          decimal.Decimal `db:"amount"`
	Status          string          `db:"status"`
	ReferenceNumber *string         `db:"reference_number"`
	Description     *string         `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	AuditFields
}
