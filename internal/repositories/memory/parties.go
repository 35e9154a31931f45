package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parties[partyID]
	if !ok {
		return nil, notFound("party", partyID)
	}
	return &p, nil
}

func (s *Store) ListParties(ctx context.Context, partyType *domain.PartyType, limit int, offset int) ([]domain.Party, error) {
	s.mu.RLock()
	out := make([]domain.Party, 0, len(s.parties))
	for _, p := range s.parties {
		if partyType == nil || p.PartyType == *partyType {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (s *Store) SaveParty(ctx context.Context, party domain.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parties {
		if p.PartyID == party.PartyID || p.Code == party.Code {
			return fmt.Errorf("%w: party %s", apperrors.ErrDuplicate, party.Code)
		}
	}
	s.parties[party.PartyID] = party
	return nil
}

func (s *Store) UpdateParty(ctx context.Context, party domain.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.parties[party.PartyID]
	if !ok {
		return notFound("party", party.PartyID)
	}
	party.CurrentBalance = cur.CurrentBalance
	party.Code = cur.Code
	party.AuditFields.CreatedAt = cur.CreatedAt
	party.AuditFields.CreatedBy = cur.CreatedBy
	s.parties[party.PartyID] = party
	return nil
}

func (s *Store) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, partyID string, delta decimal.Decimal, userID string, now time.Time) error {
	mt, err := s.txFrom(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parties[partyID]
	if !ok {
		return notFound("party", partyID)
	}
	prevAt, prevBy := p.LastUpdatedAt, p.LastUpdatedBy
	p.CurrentBalance = p.CurrentBalance.Add(delta)
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	s.parties[partyID] = p
	mt.undo = append(mt.undo, func() {
		cur, ok := s.parties[partyID]
		if !ok {
			return
		}
		cur.CurrentBalance = cur.CurrentBalance.Sub(delta)
		if cur.LastUpdatedAt.Equal(now) && cur.LastUpdatedBy == userID {
			cur.LastUpdatedAt, cur.LastUpdatedBy = prevAt, prevBy
		}
		s.parties[partyID] = cur
	})
	return nil
}
