package dto

import (
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVoucherItemRequest is one line of a new voucher.
type CreateVoucherItemRequest struct {
	ItemID      string          `json:"itemID" binding:"required"`
	Description *string         `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"dgt0"`
	Rate        decimal.Decimal `json:"rate" binding:"dgte0"`
	TaxRate     decimal.Decimal `json:"taxRate" binding:"dgte0"`
}

// CreateVoucherRequest defines the data needed to create a voucher.
// VoucherNumber is generated when omitted; Status defaults to draft.
type CreateVoucherRequest struct {
	VoucherNumber *string                    `json:"voucherNumber"`
	VoucherType   domain.VoucherType         `json:"voucherType" binding:"required,oneof=challan invoice bill quotation"`
	VoucherDate   *time.Time                 `json:"voucherDate"`
	PartyID       string                     `json:"partyID" binding:"required"`
	TripID        *string                    `json:"tripID"`
	VehicleNumber *string                    `json:"vehicleNumber"`
	DriverName    *string                    `json:"driverName"`
	PlaceOfSupply *string                    `json:"placeOfSupply"`
	Status        domain.VoucherStatus       `json:"status" binding:"omitempty,oneof=draft issued cancelled"`
	Notes         *string                    `json:"notes"`
	Items         []CreateVoucherItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateVoucherRequest carries the fields a PATCH may change.
// ApprovedBy is stamped by the handler from the authenticated user, never bound from JSON.
type UpdateVoucherRequest struct {
	Status     *domain.VoucherStatus `json:"status" binding:"omitempty,oneof=draft issued cancelled"`
	Notes      *string               `json:"notes"`
	ApprovedBy *string               `json:"-"`
}

// ListVouchersParams are the query parameters for listing vouchers.
type ListVouchersParams struct {
	Skip  int    `form:"skip" binding:"omitempty,min=0"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Type  string `form:"type" binding:"omitempty,oneof=challan invoice bill quotation"`
}

// VoucherItemResponse mirrors domain.VoucherItem.
type VoucherItemResponse struct {
	VoucherItemID string          `json:"voucherItemID"`
	ItemID        string          `json:"itemID"`
	Description   *string         `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Amount        decimal.Decimal `json:"amount"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID     string                `json:"voucherID"`
	VoucherNumber string                `json:"voucherNumber"`
	VoucherType   domain.VoucherType    `json:"voucherType"`
	VoucherDate   time.Time             `json:"voucherDate"`
	PartyID       string                `json:"partyID"`
	TripID        *string               `json:"tripID,omitempty"`
	VehicleNumber *string               `json:"vehicleNumber,omitempty"`
	DriverName    *string               `json:"driverName,omitempty"`
	PlaceOfSupply *string               `json:"placeOfSupply,omitempty"`
	Status        domain.VoucherStatus  `json:"status"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	TaxAmount     decimal.Decimal       `json:"taxAmount"`
	GrandTotal    decimal.Decimal       `json:"grandTotal"`
	Notes         *string               `json:"notes,omitempty"`
	ApprovedBy    *string               `json:"approvedBy,omitempty"`
	Items         []VoucherItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
}

// ListVouchersResponse wraps a page of vouchers.
type ListVouchersResponse struct {
	Vouchers []VoucherResponse `json:"vouchers"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
	Count    int               `json:"count"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	items := make([]VoucherItemResponse, len(v.Items))
	for i, line := range v.Items {
		items[i] = VoucherItemResponse{
			VoucherItemID: line.VoucherItemID,
			ItemID:        line.ItemID,
			Description:   line.Description,
			Quantity:      line.Quantity,
			Rate:          line.Rate,
			TaxRate:       line.TaxRate,
			Amount:        line.Amount,
		}
	}
	return VoucherResponse{
		VoucherID:     v.VoucherID,
		VoucherNumber: v.VoucherNumber,
		VoucherType:   v.VoucherType,
		VoucherDate:   v.VoucherDate,
		PartyID:       v.PartyID,
		TripID:        v.TripID,
		VehicleNumber: v.VehicleNumber,
		DriverName:    v.DriverName,
		PlaceOfSupply: v.PlaceOfSupply,
		Status:        v.Status,
		TotalAmount:   v.TotalAmount,
		TaxAmount:     v.TaxAmount,
		GrandTotal:    v.GrandTotal,
		Notes:         v.Notes,
		ApprovedBy:    v.ApprovedBy,
		Items:         items,
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
		LastUpdatedAt: v.LastUpdatedAt,
		LastUpdatedBy: v.LastUpdatedBy,
	}
}

// ToVoucherResponses converts a slice of domain.Voucher.
func ToVoucherResponses(vs []domain.Voucher) []VoucherResponse {
	out := make([]VoucherResponse, len(vs))
	for i := range vs {
		out[i] = ToVoucherResponse(&vs[i])
	}
	return out
}
