package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// scopeTables is the closed set of tables a code can be derived from.
var scopeTables = map[domain.CodeScope]string{
	domain.ScopeParties:  "parties",
	domain.ScopeItems:    "items",
	domain.ScopeVouchers: "vouchers",
	domain.ScopeTrips:    "trips",
}

type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

func tableFor(scope domain.CodeScope) (string, error) {
	table, ok := scopeTables[scope]
	if !ok {
		return "", fmt.Errorf("%w: unknown code scope %q", apperrors.ErrValidation, scope)
	}
	return table, nil
}

func (r *PgxSequenceRepository) CountInScope(ctx context.Context, scope domain.CodeScope) (int, error) {
	table, err := tableFor(scope)
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// CountInScopeOn compares calendar dates in the day's own location.
func (r *PgxSequenceRepository) CountInScopeOn(ctx context.Context, scope domain.CodeScope, day time.Time) (int, error) {
	table, err := tableFor(scope)
	if err != nil {
		return 0, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var count int
	query := `SELECT COUNT(*) FROM ` + table + ` WHERE created_at >= $1 AND created_at < $2`
	if err := r.Pool.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count today's %s: %w", table, err)
	}
	return count, nil
}
