package dto

import (
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardSummaryResponse is the headline view shown on the home screen.
// Payables are reported as a positive amount.
type DashboardSummaryResponse struct {
	TotalReceivable  decimal.Decimal `json:"totalReceivable"`
	TotalPayable     decimal.Decimal `json:"totalPayable"`
	VouchersByStatus map[string]int  `json:"vouchersByStatus"`
	LowStockItems    int             `json:"lowStockItems"`
}

func ToDashboardSummaryResponse(s *domain.DashboardSummary) DashboardSummaryResponse {
	counts := make(map[string]int, len(s.VouchersByStatus))
	for _, status := range []domain.VoucherStatus{domain.VoucherDraft, domain.VoucherIssued, domain.VoucherCancelled} {
		counts[string(status)] = s.VouchersByStatus[status]
	}
	return DashboardSummaryResponse{
		TotalReceivable:  s.TotalReceivable,
		TotalPayable:     s.TotalPayable,
		VouchersByStatus: counts,
		LowStockItems:    s.LowStockItems,
	}
}
