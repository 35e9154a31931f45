package domain

import "github.com/shopspring/decimal"

// ItemType distinguishes stocked goods from services.
type ItemType string

const (
	ItemGoods   ItemType = "goods"
	ItemService ItemType = "service"
)

// ItemCategory is the trading category of an item.
type ItemCategory string

const (
	CategoryCement    ItemCategory = "cement"
	CategoryDiesel    ItemCategory = "diesel"
	CategoryTransport ItemCategory = "transport"
	CategoryOther     ItemCategory = "other"
)

// DefaultLocation is the location used for price overrides when none is given.
const DefaultLocation = "default"

// Item is an inventory catalog entry. CurrentStock may go negative.
type Item struct {
	ItemID        string          `json:"itemID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	ItemType      ItemType        `json:"itemType"`
	Category      ItemCategory    `json:"category"`
	Unit          string          `json:"unit"`
	HSNCode       *string         `json:"hsnCode,omitempty"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// IsLowStock reports whether a stocked item is at or below its reorder level.
func (i *Item) IsLowStock() bool {
	return i.IsActive && i.ItemType == ItemGoods && i.CurrentStock.LessThanOrEqual(i.MinStockLevel)
}

// CustomerItemRate overrides an item's base price for one party at one location.
type CustomerItemRate struct {
	RateID   string          `json:"rateID"`
	ItemID   string          `json:"itemID"`
	PartyID  string          `json:"partyID"`
	Location string          `json:"location"`
	Rate     decimal.Decimal `json:"rate"`
	AuditFields
}

func (t ItemType) IsValid() bool {
	return t == ItemGoods || t == ItemService
}

func (c ItemCategory) IsValid() bool {
	switch c {
	case CategoryCement, CategoryDiesel, CategoryTransport, CategoryOther:
		return true
	}
	return false
}

// NormalizeLocation maps an empty location to DefaultLocation.
func NormalizeLocation(location string) string {
	if location == "" {
		return DefaultLocation
	}
	return location
}
