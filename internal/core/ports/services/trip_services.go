package services

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/dto"
)

// TripSvcFacade manages trips and relays live location fixes.
type TripSvcFacade interface {
	CreateTrip(ctx context.Context, req dto.CreateTripRequest, userID string) (*domain.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	ListTrips(ctx context.Context, status *domain.TripStatus, limit int, offset int) ([]domain.Trip, error)
	UpdateTripStatus(ctx context.Context, tripID string, status domain.TripStatus, userID string) (*domain.Trip, error)

	// PublishLocation fans the fix out to live subscribers and returns how many received it.
	PublishLocation(ctx context.Context, tripID string, req dto.LocationUpdateRequest) (int, error)
}
