package memory

import (
	"context"
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("user", username)
}

func (s *Store) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	s.mu.RLock()
	out := make([]domain.User, 0, len(s.userOrder))
	for i := len(s.userOrder) - 1; i >= 0; i-- {
		out = append(out, s.users[s.userOrder[i]])
	}
	s.mu.RUnlock()
	return page(out, limit, offset), nil
}

func (s *Store) FindAdminTelegramChatIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for _, id := range s.userOrder {
		u := s.users[id]
		if u.Role == domain.RoleAdmin && u.IsActive && u.TelegramChatID != nil && *u.TelegramChatID != "" {
			ids = append(ids, *u.TelegramChatID)
		}
	}
	return ids, nil
}

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserID == user.UserID || u.Username == user.Username {
			return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.Username)
		}
	}
	s.users[user.UserID] = user
	s.userOrder = append(s.userOrder, user.UserID)
	return nil
}

func (s *Store) GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := &domain.DashboardSummary{
		TotalReceivable:  decimal.Zero,
		TotalPayable:     decimal.Zero,
		VouchersByStatus: map[domain.VoucherStatus]int{},
	}
	for _, p := range s.parties {
		switch {
		case p.CurrentBalance.IsPositive():
			summary.TotalReceivable = summary.TotalReceivable.Add(p.CurrentBalance)
		case p.CurrentBalance.IsNegative():
			summary.TotalPayable = summary.TotalPayable.Sub(p.CurrentBalance)
		}
	}
	for _, v := range s.vouchers {
		summary.VouchersByStatus[v.Status]++
	}
	for _, it := range s.items {
		if it.IsLowStock() {
			summary.LowStockItems++
		}
	}
	return summary, nil
}
