package services

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// ReportingService defines aggregate views for the dashboard.
type ReportingService interface {
	GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
}
