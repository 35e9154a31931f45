package domain_test

import (
	"testing"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestVoucher_RecalculateTotals(t *testing.T) {
	tests := []struct {
		name      string
		items     []domain.VoucherItem
		wantTotal string
		wantTax   string
		wantGrand string
	}{
		{
			name:      "single invoice line with 18% tax",
			items:     []domain.VoucherItem{{Quantity: dec("10"), Rate: dec("100"), TaxRate: dec("18")}},
			wantTotal: "1000",
			wantTax:   "180",
			wantGrand: "1180",
		},
		{
			name: "line amounts rounded before summing",
			items: []domain.VoucherItem{
				{Quantity: dec("3"), Rate: dec("0.333"), TaxRate: dec("5")},
				{Quantity: dec("1.5"), Rate: dec("2.675"), TaxRate: dec("12.5")},
			},
			// 0.999 -> 1.00, tax 0.05; 4.0125 -> 4.01, tax 0.50125 -> 0.50
			wantTotal: "5.01",
			wantTax:   "0.55",
			wantGrand: "5.56",
		},
		{
			name:      "zero rate line",
			items:     []domain.VoucherItem{{Quantity: dec("4"), Rate: decimal.Zero, TaxRate: dec("18")}},
			wantTotal: "0",
			wantTax:   "0",
			wantGrand: "0",
		},
		{
			name:      "no items",
			items:     nil,
			wantTotal: "0",
			wantTax:   "0",
			wantGrand: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.Voucher{Items: tt.items}
			v.RecalculateTotals()
			assert.True(t, dec(tt.wantTotal).Equal(v.TotalAmount), "total %s", v.TotalAmount)
			assert.True(t, dec(tt.wantTax).Equal(v.TaxAmount), "tax %s", v.TaxAmount)
			assert.True(t, dec(tt.wantGrand).Equal(v.GrandTotal), "grand %s", v.GrandTotal)
			for _, line := range v.Items {
				assert.True(t, line.Quantity.Mul(line.Rate).Round(2).Equal(line.Amount))
			}
		})
	}
}

func TestVoucherStatus_TriggersImpact(t *testing.T) {
	tests := []struct {
		from, to domain.VoucherStatus
		want     bool
	}{
		{domain.VoucherDraft, domain.VoucherIssued, true},
		{domain.VoucherDraft, domain.VoucherCancelled, false},
		{domain.VoucherDraft, domain.VoucherDraft, false},
		{domain.VoucherIssued, domain.VoucherIssued, false},
		{domain.VoucherIssued, domain.VoucherCancelled, false},
		{domain.VoucherCancelled, domain.VoucherIssued, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.TriggersImpact(tt.to))
		})
	}
}

func TestVoucher_Impact(t *testing.T) {
	items := []domain.VoucherItem{
		{ItemID: "cement", Quantity: dec("10")},
		{ItemID: "diesel", Quantity: dec("2.5")},
	}

	t.Run("invoice records a sale and ships stock out", func(t *testing.T) {
		v := domain.Voucher{VoucherType: domain.VoucherInvoice, VoucherNumber: "INV-20250101-001", Items: items}
		impact := v.Impact()
		if assert.NotNil(t, impact.LedgerType) {
			assert.Equal(t, domain.TransactionSale, *impact.LedgerType)
		}
		assert.Equal(t, "Invoice INV-20250101-001", impact.Description)
		assert.True(t, impact.EmailParty)
		moves := v.StockMovements()
		assert.Len(t, moves, 2)
		assert.True(t, dec("-10").Equal(moves[0].Delta))
		assert.True(t, dec("-2.5").Equal(moves[1].Delta))
	})

	t.Run("bill records a purchase and receives stock", func(t *testing.T) {
		v := domain.Voucher{VoucherType: domain.VoucherBill, VoucherNumber: "BIL-20250101-002", Items: items}
		impact := v.Impact()
		if assert.NotNil(t, impact.LedgerType) {
			assert.Equal(t, domain.TransactionPurchase, *impact.LedgerType)
		}
		assert.Equal(t, "Purchase Bill BIL-20250101-002", impact.Description)
		assert.False(t, impact.EmailParty)
		moves := v.StockMovements()
		assert.True(t, dec("10").Equal(moves[0].Delta))
	})

	t.Run("challan moves stock without ledger", func(t *testing.T) {
		v := domain.Voucher{VoucherType: domain.VoucherChallan, Items: items}
		assert.Nil(t, v.Impact().LedgerType)
		assert.Len(t, v.StockMovements(), 2)
	})

	t.Run("quotation has no ledger or stock effect", func(t *testing.T) {
		v := domain.Voucher{VoucherType: domain.VoucherQuotation, Items: items}
		assert.Nil(t, v.Impact().LedgerType)
		assert.Empty(t, v.StockMovements())
		assert.True(t, v.Impact().EmailParty)
	})

	t.Run("cancelled voucher has no effect", func(t *testing.T) {
		v := domain.Voucher{VoucherType: domain.VoucherInvoice, Status: domain.VoucherCancelled, Items: items}
		assert.Nil(t, v.Impact().LedgerType)
		assert.False(t, v.Impact().EmailParty)
		assert.Empty(t, v.StockMovements())
	})
}

func TestVoucherType_NumberPrefix(t *testing.T) {
	assert.Equal(t, "INV", domain.VoucherInvoice.NumberPrefix())
	assert.Equal(t, "QTN", domain.VoucherQuotation.NumberPrefix())
	assert.Equal(t, "BIL", domain.VoucherBill.NumberPrefix())
	assert.Equal(t, "CHL", domain.VoucherChallan.NumberPrefix())
}
