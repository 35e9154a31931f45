package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a row of the vouchers table. Items live in voucher_items.
type Voucher struct {
	VoucherID     string          `db:"voucher_id"`
	VoucherNumber string          `db:"voucher_number"`
	VoucherType   string          `db:"voucher_type"`
	VoucherDate   time.Time       `db:"voucher_date"`
	PartyID       string          `db:"party_id"`
	TripID        *string         `db:"trip_id"`
	VehicleNumber *string         `db:"vehicle_number"`
	DriverName    *string         `db:"driver_name"`
	PlaceOfSupply *string         `db:"place_of_supply"`
	Status        string          `db:"status"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	GrandTotal    decimal.Decimal `db:"grand_total"`
	Notes         *string         `db:"notes"`
	ApprovedBy    *string         `db:"approved_by"`
	AuditFields
}

// VoucherItem is a row of the voucher_items table.
type VoucherItem struct {
	VoucherItemID string          `db:"voucher_item_id"`
	VoucherID     string          `db:"voucher_id"`
	LineNo        int             `db:"line_no"`
	ItemID        string          `db:"item_id"`
	Description   *string         `db:"description"`
	Quantity      decimal.Decimal `db:"quantity"`
	Rate          decimal.Decimal `db:"rate"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	Amount        decimal.Decimal `db:"amount"`
}
