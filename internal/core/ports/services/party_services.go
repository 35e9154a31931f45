package services

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/dto"
)

// PartySvcFacade manages customers and suppliers. Balances change only through the ledger.
type PartySvcFacade interface {
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, userID string) (*domain.Party, error)
	GetParty(ctx context.Context, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, partyType *domain.PartyType, limit int, offset int) ([]domain.Party, error)
	UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error)
}

// CodeGeneratorSvc produces human-readable codes like P-001 or INV-20240115-003.
type CodeGeneratorSvc interface {
	Next(ctx context.Context, prefix string, scope domain.CodeScope, daily bool) (string, error)
}
