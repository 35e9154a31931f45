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
)

// LocationPublisher fans live trip positions out to subscribers.
type LocationPublisher interface {
	Publish(tripID string, loc domain.TripLocation) int
}

type tripService struct {
	BaseService
	tripRepo  portsrepo.TripRepositoryFacade
	codeGen   portssvc.CodeGeneratorSvc
	publisher LocationPublisher
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo portsrepo.TripRepositoryFacade, codeGen portssvc.CodeGeneratorSvc, publisher LocationPublisher) portssvc.TripSvcFacade {
	return &tripService{
		tripRepo:  tripRepo,
		codeGen:   codeGen,
		publisher: publisher,
	}
}

var _ portssvc.TripSvcFacade = (*tripService)(nil)

func (s *tripService) CreateTrip(ctx context.Context, req dto.CreateTripRequest, userID string) (*domain.Trip, error) {
	number, err := s.codeGen.Next(ctx, domain.TripCodePrefix, domain.ScopeTrips, true)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	trip := domain.Trip{
		TripID:              uuid.NewString(),
		TripNumber:          number,
		VehicleNumber:       req.VehicleNumber,
		DriverName:          req.DriverName,
		SourceLocation:      req.SourceLocation,
		DestinationLocation: req.DestinationLocation,
		Status:              domain.TripPlanned,
		StartDate:           now,
		AuditFields:         newAudit(userID, now),
	}
	if req.StartDate != nil {
		trip.StartDate = *req.StartDate
	}
	if err := s.tripRepo.SaveTrip(ctx, trip); err != nil {
		s.LogError(ctx, err, "Failed to save trip", slog.String("trip_number", number))
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	s.LogInfo(ctx, "Trip created", slog.String("trip_id", trip.TripID), slog.String("trip_number", number))
	return &trip, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	trip, err := s.tripRepo.FindTripByID(ctx, tripID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find trip", slog.String("trip_id", tripID))
		}
		return nil, fmt.Errorf("failed to get trip %s: %w", tripID, err)
	}
	return trip, nil
}

func (s *tripService) ListTrips(ctx context.Context, status *domain.TripStatus, limit int, offset int) ([]domain.Trip, error) {
	trips, err := s.tripRepo.ListTrips(ctx, status, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list trips")
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

func (s *tripService) UpdateTripStatus(ctx context.Context, tripID string, status domain.TripStatus, userID string) (*domain.Trip, error) {
	if !status.IsValid() {
		return nil, apperrors.NewFieldError("status", "unknown trip status")
	}
	if err := s.tripRepo.UpdateTripStatus(ctx, tripID, status, userID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update trip status", slog.String("trip_id", tripID))
		}
		return nil, fmt.Errorf("failed to update trip %s: %w", tripID, err)
	}
	return s.GetTrip(ctx, tripID)
}

// PublishLocation relays a fix to live subscribers. Positions are not stored.
func (s *tripService) PublishLocation(ctx context.Context, tripID string, req dto.LocationUpdateRequest) (int, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return 0, err
	}
	if trip.Status == domain.TripCompleted || trip.Status == domain.TripCancelled {
		return 0, apperrors.NewFieldError("status", fmt.Sprintf("trip is %s", trip.Status))
	}

	loc := domain.TripLocation{
		TripID:     tripID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Speed:      req.Speed,
		Heading:    req.Heading,
		RecordedAt: s.Now(),
	}
	if req.RecordedAt != nil {
		loc.RecordedAt = *req.RecordedAt
	}
	delivered := s.publisher.Publish(tripID, loc)
	s.LogDebug(ctx, "Trip location published", slog.String("trip_id", tripID), slog.Int("delivered", delivered))
	return delivered, nil
}
