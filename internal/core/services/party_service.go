package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepositoryFacade
	codeGen   portssvc.CodeGeneratorSvc
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade, codeGen portssvc.CodeGeneratorSvc) portssvc.PartySvcFacade {
	return &partyService{
		partyRepo: partyRepo,
		codeGen:   codeGen,
	}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// CreateParty registers a customer or supplier with a zero opening balance.
func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	if !req.PartyType.IsValid() {
		return nil, apperrors.NewFieldError("partyType", "must be customer, supplier or both")
	}
	code, err := s.codeGen.Next(ctx, domain.PartyCodePrefix, domain.ScopeParties, false)
	if err != nil {
		return nil, err
	}

	party := domain.Party{
		PartyID:        uuid.NewString(),
		Code:           code,
		Name:           req.Name,
		PartyType:      req.PartyType,
		Email:          req.Email,
		Phone:          req.Phone,
		GSTIN:          req.GSTIN,
		Address:        req.Address,
		CreditLimit:    req.CreditLimit,
		CurrentBalance: decimal.Zero,
		Status:         domain.PartyActive,
		AuditFields:    newAudit(userID, s.Now()),
	}
	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		s.LogError(ctx, err, "Failed to save party", slog.String("code", code))
		return nil, fmt.Errorf("failed to create party: %w", err)
	}

	s.LogInfo(ctx, "Party created", slog.String("party_id", party.PartyID), slog.String("code", code))
	return &party, nil
}

func (s *partyService) GetParty(ctx context.Context, partyID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find party", slog.String("party_id", partyID))
		}
		return nil, fmt.Errorf("failed to get party %s: %w", partyID, err)
	}
	return party, nil
}

func (s *partyService) ListParties(ctx context.Context, partyType *domain.PartyType, limit int, offset int) ([]domain.Party, error) {
	parties, err := s.partyRepo.ListParties(ctx, partyType, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties")
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return parties, nil
}

// UpdateParty changes descriptive fields only; the balance moves through the ledger.
func (s *partyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	party, err := s.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.Email != nil {
		party.Email = req.Email
	}
	if req.Phone != nil {
		party.Phone = req.Phone
	}
	if req.GSTIN != nil {
		party.GSTIN = req.GSTIN
	}
	if req.Address != nil {
		party.Address = req.Address
	}
	if req.CreditLimit != nil {
		party.CreditLimit = *req.CreditLimit
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apperrors.NewFieldError("status", "unknown party status")
		}
		party.Status = *req.Status
	}
	party.LastUpdatedAt = s.Now()
	party.LastUpdatedBy = userID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		s.LogError(ctx, err, "Failed to update party", slog.String("party_id", partyID))
		return nil, fmt.Errorf("failed to update party %s: %w", partyID, err)
	}
	return party, nil
}
