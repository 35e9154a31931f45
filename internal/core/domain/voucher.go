package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType is the kind of trade document.
type VoucherType string

const (
	VoucherChallan   VoucherType = "challan"
	VoucherInvoice   VoucherType = "invoice"
	VoucherBill      VoucherType = "bill"
	VoucherQuotation VoucherType = "quotation"
)

// VoucherStatus is the lifecycle state of a voucher.
type VoucherStatus string

const (
	VoucherDraft     VoucherStatus = "draft"
	VoucherIssued    VoucherStatus = "issued"
	VoucherCancelled VoucherStatus = "cancelled"
)

var hundred = decimal.NewFromInt(100)

// Voucher is a trade document header with its line items.
type Voucher struct {
	VoucherID     string          `json:"voucherID"`
	VoucherNumber string          `json:"voucherNumber"`
	VoucherType   VoucherType     `json:"voucherType"`
	VoucherDate   time.Time       `json:"voucherDate"`
	PartyID       string          `json:"partyID"`
	TripID        *string         `json:"tripID,omitempty"`
	VehicleNumber *string         `json:"vehicleNumber,omitempty"`
	DriverName    *string         `json:"driverName,omitempty"`
	PlaceOfSupply *string         `json:"placeOfSupply,omitempty"`
	Status        VoucherStatus   `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Notes         *string         `json:"notes,omitempty"`
	ApprovedBy    *string         `json:"approvedBy,omitempty"`
	Items         []VoucherItem   `json:"items"`
	AuditFields
}

// VoucherItem is one line of a voucher.
type VoucherItem struct {
	VoucherItemID string          `json:"voucherItemID"`
	VoucherID     string          `json:"voucherID"`
	ItemID        string          `json:"itemID"`
	Description   *string         `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Amount        decimal.Decimal `json:"amount"`
}

// LineAmount returns round(quantity*rate, 2).
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate).Round(2)
}

// LineTax returns round(amount*taxRate/100, 2).
func LineTax(amount, taxRate decimal.Decimal) decimal.Decimal {
	return amount.Mul(taxRate).Div(hundred).Round(2)
}

// RecalculateTotals recomputes every line amount and the header totals in place.
func (v *Voucher) RecalculateTotals() {
	total := decimal.Zero
	tax := decimal.Zero
	for i := range v.Items {
		line := &v.Items[i]
		line.Amount = LineAmount(line.Quantity, line.Rate)
		total = total.Add(line.Amount)
		tax = tax.Add(LineTax(line.Amount, line.TaxRate))
	}
	v.TotalAmount = total.Round(2)
	v.TaxAmount = tax.Round(2)
	v.GrandTotal = v.TotalAmount.Add(v.TaxAmount).Round(2)
}

// NumberPrefix is the prefix used for auto-generated voucher numbers.
func (t VoucherType) NumberPrefix() string {
	switch t {
	case VoucherInvoice:
		return "INV"
	case VoucherQuotation:
		return "QTN"
	case VoucherBill:
		return "BIL"
	default:
		return "CHL"
	}
}

func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherChallan, VoucherInvoice, VoucherBill, VoucherQuotation:
		return true
	}
	return false
}

func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherDraft, VoucherIssued, VoucherCancelled:
		return true
	}
	return false
}

// TriggersImpact reports whether moving from s to next applies ledger and stock impact.
// Only issuing a draft does; cancelling a draft closes it without effects.
func (s VoucherStatus) TriggersImpact(next VoucherStatus) bool {
	return s == VoucherDraft && next == VoucherIssued
}

// VoucherImpact describes the ledger, stock and notification effects of issuing a voucher.
type VoucherImpact struct {
	// LedgerType is nil when the voucher has no financial effect.
	LedgerType  *TransactionType
	Description string
	// StockSign is -1 for outbound goods, +1 for inbound, 0 for none.
	StockSign int
	EmailParty bool
}

// Impact returns the effects leaving draft has for this voucher. A cancelled
// voucher has none.
func (v *Voucher) Impact() VoucherImpact {
	var impact VoucherImpact
	if v.Status == VoucherCancelled {
		return impact
	}
	switch v.VoucherType {
	case VoucherInvoice:
		sale := TransactionSale
		impact.LedgerType = &sale
		impact.Description = "Invoice " + v.VoucherNumber
		impact.StockSign = -1
		impact.EmailParty = true
	case VoucherBill:
		purchase := TransactionPurchase
		impact.LedgerType = &purchase
		impact.Description = "Purchase Bill " + v.VoucherNumber
		impact.StockSign = 1
	case VoucherChallan:
		impact.StockSign = -1
		impact.EmailParty = true
	case VoucherQuotation:
		impact.EmailParty = true
	}
	return impact
}

// StockMovement is a signed stock change for one voucher line.
type StockMovement struct {
	ItemID string
	Delta  decimal.Decimal
}

// StockMovements returns one movement per line, in line order.
// It is empty for voucher types without stock impact.
func (v *Voucher) StockMovements() []StockMovement {
	sign := v.Impact().StockSign
	if sign == 0 {
		return nil
	}
	movements := make([]StockMovement, 0, len(v.Items))
	for _, line := range v.Items {
		delta := line.Quantity
		if sign < 0 {
			delta = delta.Neg()
		}
		movements = append(movements, StockMovement{ItemID: line.ItemID, Delta: delta})
	}
	return movements
}
