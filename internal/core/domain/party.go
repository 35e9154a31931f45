package domain

import "github.com/shopspring/decimal"

// PartyType classifies who we trade with.
type PartyType string

const (
	PartyCustomer PartyType = "customer"
	PartySupplier PartyType = "supplier"
	PartyBoth     PartyType = "both"
)

// PartyStatus is the trading status of a party.
type PartyStatus string

const (
	PartyActive   PartyStatus = "active"
	PartyInactive PartyStatus = "inactive"
	PartyBlocked  PartyStatus = "blocked"
)

// Party is a customer or supplier with a running signed balance.
// A positive CurrentBalance is owed to us, a negative one is owed by us.
type Party struct {
	PartyID        string          `json:"partyID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	PartyType      PartyType       `json:"partyType"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	GSTIN          *string         `json:"gstin,omitempty"`
	Address        *string         `json:"address,omitempty"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Status         PartyStatus     `json:"status"`
	AuditFields
}

// HasEmail reports whether the party can receive voucher emails.
func (p *Party) HasEmail() bool {
	return p != nil && p.Email != nil && *p.Email != ""
}

func (t PartyType) IsValid() bool {
	switch t {
	case PartyCustomer, PartySupplier, PartyBoth:
		return true
	}
	return false
}

func (s PartyStatus) IsValid() bool {
	switch s {
	case PartyActive, PartyInactive, PartyBlocked:
		return true
	}
	return false
}
