package domain

import "github.com/shopspring/decimal"

// DashboardSummary is the headline view of receivables, payables and stock.
type DashboardSummary struct {
	TotalReceivable  decimal.Decimal       `json:"totalReceivable"`
	TotalPayable     decimal.Decimal       `json:"totalPayable"`
	VouchersByStatus map[VoucherStatus]int `json:"vouchersByStatus"`
	LowStockItems    int                   `json:"lowStockItems"`
}
