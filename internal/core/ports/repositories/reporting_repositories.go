package repositories

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// ReportingRepository defines aggregate queries for the dashboard
type ReportingRepository interface {
	GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
}
