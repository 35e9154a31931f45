package repositories

import (
	"context"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// TripRepositoryFacade defines persistence for trips
type TripRepositoryFacade interface {
	FindTripByID(ctx context.Context, tripID string) (*domain.Trip, error)
	ListTrips(ctx context.Context, status *domain.TripStatus, limit int, offset int) ([]domain.Trip, error)
	SaveTrip(ctx context.Context, trip domain.Trip) error
	UpdateTripStatus(ctx context.Context, tripID string, status domain.TripStatus, userID string, now time.Time) error
}
