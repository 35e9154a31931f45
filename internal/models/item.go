package models

import "github.com/shopspring/decimal"

// Item is a row of the items table.
type Item struct {
	ItemID        string          `db:"item_id"`
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	ItemType      string          `db:"item_type"`
	Category      string          `db:"category"`
	Unit          string          `db:"unit"`
	HSNCode       *string         `db:"hsn_code"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	BasePrice     decimal.Decimal `db:"base_price"`
	CurrentStock  decimal.Decimal `db:"current_stock"`
	MinStockLevel decimal.Decimal `db:"min_stock_level"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}

// CustomerItemRate is a row of customer_item_rates, unique on (item_id, party_id, location).
type CustomerItemRate struct {
	RateID   string          `db:"rate_id"`
	ItemID   string          `db:"item_id"`
	PartyID  string          `db:"party_id"`
	Location string          `db:"location"`
	Rate     decimal.Decimal `db:"rate"`
	AuditFields
}
