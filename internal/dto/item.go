package dto

import (
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateItemRequest defines the data needed to add an item to the catalog.
type CreateItemRequest struct {
	Name          string              `json:"name" binding:"required,max=200"`
	ItemType      domain.ItemType     `json:"itemType" binding:"required,oneof=goods service"`
	Category      domain.ItemCategory `json:"category" binding:"required,oneof=cement diesel transport other"`
	Unit          string              `json:"unit" binding:"required,max=20"`
	HSNCode       *string             `json:"hsnCode"`
	TaxRate       decimal.Decimal     `json:"taxRate" binding:"dgte0"`
	BasePrice     decimal.Decimal     `json:"basePrice" binding:"dgte0"`
	OpeningStock  decimal.Decimal     `json:"openingStock"`
	MinStockLevel decimal.Decimal     `json:"minStockLevel" binding:"dgte0"`
}

// UpdateItemRequest changes catalog fields. Stock moves only through adjustments and vouchers.
type UpdateItemRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=200"`
	Unit          *string          `json:"unit" binding:"omitempty,max=20"`
	HSNCode       *string          `json:"hsnCode"`
	TaxRate       *decimal.Decimal `json:"taxRate" binding:"omitempty,dgte0"`
	BasePrice     *decimal.Decimal `json:"basePrice" binding:"omitempty,dgte0"`
	MinStockLevel *decimal.Decimal `json:"minStockLevel" binding:"omitempty,dgte0"`
	IsActive      *bool            `json:"isActive"`
}

// AdjustStockRequest is a manual signed stock correction.
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason" binding:"required,max=200"`
}

// ListItemsParams are the query parameters for listing items.
type ListItemsParams struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ItemResponse defines the data returned for an item.
type ItemResponse struct {
	ItemID        string              `json:"itemID"`
	Code          string              `json:"code"`
	Name          string              `json:"name"`
	ItemType      domain.ItemType     `json:"itemType"`
	Category      domain.ItemCategory `json:"category"`
	Unit          string              `json:"unit"`
	HSNCode       *string             `json:"hsnCode,omitempty"`
	TaxRate       decimal.Decimal     `json:"taxRate"`
	BasePrice     decimal.Decimal     `json:"basePrice"`
	CurrentStock  decimal.Decimal     `json:"currentStock"`
	MinStockLevel decimal.Decimal     `json:"minStockLevel"`
	IsActive      bool                `json:"isActive"`
	LowStock      bool                `json:"lowStock"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

func ToItemResponse(i *domain.Item) ItemResponse {
	return ItemResponse{
		ItemID:        i.ItemID,
		Code:          i.Code,
		Name:          i.Name,
		ItemType:      i.ItemType,
		Category:      i.Category,
		Unit:          i.Unit,
		HSNCode:       i.HSNCode,
		TaxRate:       i.TaxRate,
		BasePrice:     i.BasePrice,
		CurrentStock:  i.CurrentStock,
		MinStockLevel: i.MinStockLevel,
		IsActive:      i.IsActive,
		LowStock:      i.IsLowStock(),
		CreatedAt:     i.CreatedAt,
		LastUpdatedAt: i.LastUpdatedAt,
	}
}

func ToItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}

// SetCustomerRateRequest upserts a party price override.
type SetCustomerRateRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	PartyID  string          `json:"partyID" binding:"required"`
	Location string          `json:"location" binding:"omitempty,max=100"`
	Rate     decimal.Decimal `json:"rate" binding:"dgte0"`
}

// CustomerRateResponse defines the data returned for a price override.
type CustomerRateResponse struct {
	RateID   string          `json:"rateID"`
	ItemID   string          `json:"itemID"`
	PartyID  string          `json:"partyID"`
	Location string          `json:"location"`
	Rate     decimal.Decimal `json:"rate"`
}

func ToCustomerRateResponse(r *domain.CustomerItemRate) CustomerRateResponse {
	return CustomerRateResponse{
		RateID:   r.RateID,
		ItemID:   r.ItemID,
		PartyID:  r.PartyID,
		Location: r.Location,
		Rate:     r.Rate,
	}
}

// EffectivePriceResponse is the resolved price of an item for a party.
type EffectivePriceResponse struct {
	ItemID   string          `json:"itemID"`
	PartyID  string          `json:"partyID"`
	Location string          `json:"location"`
	Price    decimal.Decimal `json:"price"`
}
