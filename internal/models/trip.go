package models

import "time"

// Trip is a row of the trips table.
type Trip struct {
	TripID              string    `db:"trip_id"`
	TripNumber          string    `db:"trip_number"`
	VehicleNumber       string    `db:"vehicle_number"`
	DriverName          string    `db:"driver_name"`
	SourceLocation      string    `db:"source_location"`
	DestinationLocation string    `db:"destination_location"`
	Status              string    `db:"status"`
	StartDate           time.Time `db:"start_date"`
	AuditFields
}
