package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[itemID]
	if !ok {
		return nil, notFound("item", itemID)
	}
	return &it, nil
}

func (s *Store) FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Item, len(itemIDs))
	for _, id := range itemIDs {
		if it, ok := s.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}

func (s *Store) sortedItems(keep func(domain.Item) bool) []domain.Item {
	s.mu.RLock()
	out := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error) {
	return page(s.sortedItems(func(domain.Item) bool { return true }), limit, offset), nil
}

func (s *Store) ListLowStockItems(ctx context.Context) ([]domain.Item, error) {
	return s.sortedItems(func(it domain.Item) bool { return it.IsLowStock() }), nil
}

func (s *Store) SaveItem(ctx context.Context, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ItemID == item.ItemID || it.Code == item.Code {
			return fmt.Errorf("%w: item %s", apperrors.ErrDuplicate, item.Code)
		}
	}
	s.items[item.ItemID] = item
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[item.ItemID]
	if !ok {
		return notFound("item", item.ItemID)
	}
	item.CurrentStock = cur.CurrentStock
	item.Code = cur.Code
	item.AuditFields.CreatedAt = cur.CreatedAt
	item.AuditFields.CreatedBy = cur.CreatedBy
	s.items[item.ItemID] = item
	return nil
}

func (s *Store) adjustLocked(itemID string, delta decimal.Decimal) error {
	it, ok := s.items[itemID]
	if !ok {
		return notFound("item", itemID)
	}
	it.CurrentStock = it.CurrentStock.Add(delta)
	s.items[itemID] = it
	return nil
}

func (s *Store) AdjustStock(ctx context.Context, itemID string, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustLocked(itemID, delta)
}

func (s *Store) AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal) error {
	mt, err := s.txFrom(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.adjustLocked(itemID, delta); err != nil {
		return err
	}
	// undo reverses only this delta so writes made outside the transaction survive
	mt.undo = append(mt.undo, func() { _ = s.adjustLocked(itemID, delta.Neg()) })
	return nil
}

func (s *Store) FindCustomerRate(ctx context.Context, itemID, partyID, location string) (*domain.CustomerItemRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rates[rateKey{itemID, partyID, domain.NormalizeLocation(location)}]
	if !ok {
		return nil, notFound("customer rate", itemID+"/"+partyID)
	}
	return &r, nil
}

func (s *Store) UpsertCustomerRate(ctx context.Context, rate domain.CustomerItemRate) (*domain.CustomerItemRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[rate.ItemID]; !ok {
		return nil, notFound("item", rate.ItemID)
	}
	if _, ok := s.parties[rate.PartyID]; !ok {
		return nil, notFound("party", rate.PartyID)
	}
	rate.Location = domain.NormalizeLocation(rate.Location)
	key := rateKey{rate.ItemID, rate.PartyID, rate.Location}
	if cur, ok := s.rates[key]; ok {
		cur.Rate = rate.Rate
		cur.LastUpdatedAt = rate.LastUpdatedAt
		cur.LastUpdatedBy = rate.LastUpdatedBy
		rate = cur
	}
	s.rates[key] = rate
	return &rate, nil
}

func (s *Store) ListCustomerRatesByParty(ctx context.Context, partyID string) ([]domain.CustomerItemRate, error) {
	s.mu.RLock()
	out := []domain.CustomerItemRate{}
	for k, r := range s.rates {
		if k.partyID == partyID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}
