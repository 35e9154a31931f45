package domain

import "time"

// TripStatus is the progress of a trip.
type TripStatus string

const (
	TripPlanned   TripStatus = "planned"
	TripInTransit TripStatus = "in_transit"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// Trip is a vehicle run that vouchers may be attached to.
type Trip struct {
	TripID              string     `json:"tripID"`
	TripNumber          string     `json:"tripNumber"`
	VehicleNumber       string     `json:"vehicleNumber"`
	DriverName          string     `json:"driverName"`
	SourceLocation      string     `json:"sourceLocation"`
	DestinationLocation string     `json:"destinationLocation"`
	Status              TripStatus `json:"status"`
	StartDate           time.Time  `json:"startDate"`
	AuditFields
}

// TripLocation is a live position update for a trip. It is not persisted.
type TripLocation struct {
	TripID     string    `json:"tripID"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      *float64  `json:"speed,omitempty"`
	Heading    *float64  `json:"heading,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (s TripStatus) IsValid() bool {
	switch s {
	case TripPlanned, TripInTransit, TripCompleted, TripCancelled:
		return true
	}
	return false
}
