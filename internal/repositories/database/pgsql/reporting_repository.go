package pgsql

import (
	"context"
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetDashboardSummary reports payables as a positive amount.
func (r *reportingRepository) GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{VouchersByStatus: map[domain.VoucherStatus]int{}}

	balanceQuery := `
		SELECT
			COALESCE(SUM(CASE WHEN current_balance > 0 THEN current_balance ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN current_balance < 0 THEN -current_balance ELSE 0 END), 0)
		FROM parties;
	`
	var receivable, payable decimal.Decimal
	if err := r.Pool.QueryRow(ctx, balanceQuery).Scan(&receivable, &payable); err != nil {
		return nil, fmt.Errorf("error querying party balances: %w", err)
	}
	summary.TotalReceivable = receivable
	summary.TotalPayable = payable

	rows, err := r.Pool.Query(ctx, `SELECT status, COUNT(*) FROM vouchers GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("error querying voucher counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning voucher count row: %w", err)
		}
		summary.VouchersByStatus[domain.VoucherStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher count rows: %w", err)
	}

	lowStockQuery := `
		SELECT COUNT(*) FROM items
		WHERE is_active AND item_type = 'goods' AND current_stock <= min_stock_level;
	`
	if err := r.Pool.QueryRow(ctx, lowStockQuery).Scan(&summary.LowStockItems); err != nil {
		return nil, fmt.Errorf("error querying low stock count: %w", err)
	}
	return summary, nil
}
