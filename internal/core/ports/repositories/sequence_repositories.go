package repositories

import (
	"context"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// SequenceRepository counts rows used to derive human-readable codes.
type SequenceRepository interface {
	// CountInScope returns the number of rows currently in scope.
	CountInScope(ctx context.Context, scope domain.CodeScope) (int, error)

	// CountInScopeOn returns the number of rows in scope created on day's calendar date.
	CountInScopeOn(ctx context.Context, scope domain.CodeScope, day time.Time) (int, error)
}
