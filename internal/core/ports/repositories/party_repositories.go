package repositories

import (
	"context"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PartyReader defines read operations for party data
type PartyReader interface {
	// FindPartyByID returns apperrors.ErrNotFound when the party does not exist.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// ListParties returns parties ordered by name, optionally filtered by type.
	ListParties(ctx context.Context, partyType *domain.PartyType, limit int, offset int) ([]domain.Party, error)
}

// PartyWriter defines write operations for party data
type PartyWriter interface {
	SaveParty(ctx context.Context, party domain.Party) error

	// UpdateParty updates descriptive fields. It never touches current_balance.
	UpdateParty(ctx context.Context, party domain.Party) error
}

// PartyBalanceSupport is the only path that mutates a party balance.
type PartyBalanceSupport interface {
	// ApplyBalanceDeltaInTx adds delta to current_balance in a single statement.
	// Returns apperrors.ErrNotFound when the party does not exist.
	ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, partyID string, delta decimal.Decimal, userID string, now time.Time) error
}

// PartyRepositoryFacade combines all party-related repository interfaces
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
	PartyBalanceSupport
}
