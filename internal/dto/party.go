package dto

import (
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest defines the data needed to create a party. The code is generated.
type CreatePartyRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	PartyType   domain.PartyType `json:"partyType" binding:"required,oneof=customer supplier both"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Phone       *string          `json:"phone"`
	GSTIN       *string          `json:"gstin" binding:"omitempty,len=15"`
	Address     *string          `json:"address"`
	CreditLimit decimal.Decimal  `json:"creditLimit" binding:"dgte0"`
}

// UpdatePartyRequest uses pointers to distinguish omitted fields. Balance is not updatable.
type UpdatePartyRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=200"`
	Email       *string             `json:"email" binding:"omitempty,email"`
	Phone       *string             `json:"phone"`
	GSTIN       *string             `json:"gstin" binding:"omitempty,len=15"`
	Address     *string             `json:"address"`
	CreditLimit *decimal.Decimal    `json:"creditLimit" binding:"omitempty,dgte0"`
	Status      *domain.PartyStatus `json:"status" binding:"omitempty,oneof=active inactive blocked"`
}

// ListPartiesParams are the query parameters for listing parties.
type ListPartiesParams struct {
	Skip  int    `form:"skip" binding:"omitempty,min=0"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Type  string `form:"type" binding:"omitempty,oneof=customer supplier both"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID        string             `json:"partyID"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	PartyType      domain.PartyType   `json:"partyType"`
	Email          *string            `json:"email,omitempty"`
	Phone          *string            `json:"phone,omitempty"`
	GSTIN          *string            `json:"gstin,omitempty"`
	Address        *string            `json:"address,omitempty"`
	CreditLimit    decimal.Decimal    `json:"creditLimit"`
	CurrentBalance decimal.Decimal    `json:"currentBalance"`
	Status         domain.PartyStatus `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:        p.PartyID,
		Code:           p.Code,
		Name:           p.Name,
		PartyType:      p.PartyType,
		Email:          p.Email,
		Phone:          p.Phone,
		GSTIN:          p.GSTIN,
		Address:        p.Address,
		CreditLimit:    p.CreditLimit,
		CurrentBalance: p.CurrentBalance,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		LastUpdatedAt:  p.LastUpdatedAt,
	}
}

func ToPartyResponses(ps []domain.Party) []PartyResponse {
	out := make([]PartyResponse, len(ps))
	for i := range ps {
		out[i] = ToPartyResponse(&ps[i])
	}
	return out
}
