package dto

import (
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// CreateTripRequest defines the data needed to plan a trip.
type CreateTripRequest struct {
	VehicleNumber       string     `json:"vehicleNumber" binding:"required,max=20"`
	DriverName          string     `json:"driverName" binding:"required,max=100"`
	SourceLocation      string     `json:"sourceLocation" binding:"required,max=100"`
	DestinationLocation string     `json:"destinationLocation" binding:"required,max=100"`
	StartDate           *time.Time `json:"startDate"`
}

// UpdateTripStatusRequest moves a trip through its lifecycle.
type UpdateTripStatusRequest struct {
	Status domain.TripStatus `json:"status" binding:"required,oneof=planned in_transit completed cancelled"`
}

// ListTripsParams are the query parameters for listing trips.
type ListTripsParams struct {
	Skip   int    `form:"skip" binding:"omitempty,min=0"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Status string `form:"status" binding:"omitempty,oneof=planned in_transit completed cancelled"`
}

// LocationUpdateRequest is a GPS fix posted by a driver.
type LocationUpdateRequest struct {
	Latitude   float64    `json:"latitude" binding:"min=-90,max=90"`
	Longitude  float64    `json:"longitude" binding:"min=-180,max=180"`
	Speed      *float64   `json:"speed" binding:"omitempty,min=0"`
	Heading    *float64   `json:"heading" binding:"omitempty,min=0,max=360"`
	RecordedAt *time.Time `json:"recordedAt"`
}

// LocationUpdateResponse reports how many live subscribers received the fix.
type LocationUpdateResponse struct {
	Delivered int `json:"delivered"`
}

// TripResponse defines the data returned for a trip.
type TripResponse struct {
	TripID              string            `json:"tripID"`
	TripNumber          string            `json:"tripNumber"`
	VehicleNumber       string            `json:"vehicleNumber"`
	DriverName          string            `json:"driverName"`
	SourceLocation      string            `json:"sourceLocation"`
	DestinationLocation string            `json:"destinationLocation"`
	Status              domain.TripStatus `json:"status"`
	StartDate           time.Time         `json:"startDate"`
	CreatedAt           time.Time         `json:"createdAt"`
	LastUpdatedAt       time.Time         `json:"lastUpdatedAt"`
}

func ToTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		TripID:              t.TripID,
		TripNumber:          t.TripNumber,
		VehicleNumber:       t.VehicleNumber,
		DriverName:          t.DriverName,
		SourceLocation:      t.SourceLocation,
		DestinationLocation: t.DestinationLocation,
		Status:              t.Status,
		StartDate:           t.StartDate,
		CreatedAt:           t.CreatedAt,
		LastUpdatedAt:       t.LastUpdatedAt,
	}
}

func ToTripResponses(ts []domain.Trip) []TripResponse {
	out := make([]TripResponse, len(ts))
	for i := range ts {
		out[i] = ToTripResponse(&ts[i])
	}
	return out
}
