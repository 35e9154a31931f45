package models

import "github.com/shopspring/decimal"

// Party is a row of the parties table.
type Party struct {
	PartyID        string          `db:"party_id"`
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	PartyType      string          `db:"party_type"`
	Email          *string         `db:"email"`
	Phone          *string         `db:"phone"`
	GSTIN          *string         `db:"gstin"`
	Address        *string         `db:"address"`
	CreditLimit    decimal.Decimal `db:"credit_limit"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	Status         string          `db:"status"`
	AuditFields
}
