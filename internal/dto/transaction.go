package dto

import (
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records a payment or other ledger entry directly.
type CreateTransactionRequest struct {
	PartyID         *string                  `json:"partyID"`
	VoucherID       *string                  `json:"voucherID"`
	TransactionType domain.TransactionType   `json:"transactionType" binding:"required,oneof=sale purchase payment_in payment_out contra expense"`
	PaymentMode     domain.PaymentMode       `json:"paymentMode" binding:"omitempty,oneof=cash bank_transfer cheque credit upi"`
	Amount          decimal.Decimal          `json:"amount" binding:"dgt0"`
	Status          domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	ReferenceNumber *string                  `json:"referenceNumber" binding:"omitempty,max=100"`
	Description     *string                  `json:"description" binding:"omitempty,max=500"`
	TransactionDate *time.Time               `json:"transactionDate"`
}

// ListTransactionsParams are offset pagination parameters for the full ledger.
type ListTransactionsParams struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ListPartyTransactionsParams are cursor pagination parameters for a party statement.
type ListPartyTransactionsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                   `json:"transactionID"`
	PartyID         *string                  `json:"partyID,omitempty"`
	VoucherID       *string                  `json:"voucherID,omitempty"`
	TransactionType domain.TransactionType   `json:"transactionType"`
	PaymentMode     domain.PaymentMode       `json:"paymentMode"`
	Amount          decimal.Decimal          `json:"amount"`
	Status          domain.TransactionStatus `json:"status"`
	ReferenceNumber *string                  `json:"referenceNumber,omitempty"`
	Description     *string                  `json:"description,omitempty"`
	TransactionDate time.Time                `json:"transactionDate"`
	CreatedAt       time.Time                `json:"createdAt"`
	CreatedBy       string                   `json:"createdBy"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		PartyID:         txn.PartyID,
		VoucherID:       txn.VoucherID,
		TransactionType: txn.TransactionType,
		PaymentMode:     txn.PaymentMode,
		Amount:          txn.Amount,
		Status:          txn.Status,
		ReferenceNumber: txn.ReferenceNumber,
		Description:     txn.Description,
		TransactionDate: txn.TransactionDate,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
