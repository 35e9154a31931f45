package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: repo}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetDashboardSummary reports receivables, payables (as a positive amount),
// voucher counts by status and the number of low-stock items.
func (s *reportingService) GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	summary, err := s.reportingRepo.GetDashboardSummary(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to build dashboard summary")
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}
	s.LogDebug(ctx, "Dashboard summary generated",
		slog.String("receivable", summary.TotalReceivable.String()),
		slog.String("payable", summary.TotalPayable.String()),
		slog.Int("low_stock_items", summary.LowStockItems))
	return summary, nil
}
