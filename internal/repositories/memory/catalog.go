package memory

import (
	"context"
	"slices"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (s *Store) createdAts(scope domain.CodeScope) []time.Time {
	var out []time.Time
	switch scope {
	case domain.ScopeParties:
		for _, p := range s.parties {
			out = append(out, p.CreatedAt)
		}
	case domain.ScopeItems:
		for _, it := range s.items {
			out = append(out, it.CreatedAt)
		}
	case domain.ScopeVouchers:
		for _, v := range s.vouchers {
			out = append(out, v.CreatedAt)
		}
	case domain.ScopeTrips:
		for _, t := range s.trips {
			out = append(out, t.CreatedAt)
		}
	}
	return out
}

func (s *Store) CountInScope(ctx context.Context, scope domain.CodeScope) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.createdAts(scope)), nil
}

func (s *Store) CountInScopeOn(ctx context.Context, scope domain.CodeScope, day time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, at := range s.createdAts(scope) {
		if sameDay(at, day) {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindTripByID(ctx context.Context, tripID string) (*domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[tripID]
	if !ok {
		return nil, notFound("trip", tripID)
	}
	return &t, nil
}

func (s *Store) ListTrips(ctx context.Context, status *domain.TripStatus, limit int, offset int) ([]domain.Trip, error) {
	s.mu.RLock()
	out := []domain.Trip{}
	for i := len(s.tripOrder) - 1; i >= 0; i-- {
		t := s.trips[s.tripOrder[i]]
		if status == nil || t.Status == *status {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	return page(out, limit, offset), nil
}

func (s *Store) SaveTrip(ctx context.Context, trip domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.TripID] = trip
	s.tripOrder = append(s.tripOrder, trip.TripID)
	return nil
}

func (s *Store) UpdateTripStatus(ctx context.Context, tripID string, status domain.TripStatus, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return notFound("trip", tripID)
	}
	t.Status = status
	t.LastUpdatedAt = now
	t.LastUpdatedBy = userID
	s.trips[tripID] = t
	return nil
}

func (s *Store) SaveNotification(ctx context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *Store) ListNotificationsForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != nil && *n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return page(out, limit, 0), nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.notifications, func(n domain.Notification) bool {
		return n.NotificationID == notificationID && (n.UserID == nil || *n.UserID == userID)
	})
	if i < 0 {
		return notFound("notification", notificationID)
	}
	s.notifications[i].IsRead = true
	return nil
}
