package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/bluestar-trading/erp_backend/internal/models"
	"github.com/bluestar-trading/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTripRepository struct {
	BaseRepository
}

func newPgxTripRepository(pool *pgxpool.Pool) portsrepo.TripRepositoryFacade {
	return &PgxTripRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TripRepositoryFacade = (*PgxTripRepository)(nil)

const tripColumns = `trip_id, trip_number, vehicle_number, driver_name, source_location, destination_location,
	status, start_date, created_at, created_by, last_updated_at, last_updated_by`

func scanTrip(row pgx.Row) (models.Trip, error) {
	var m models.Trip
	err := row.Scan(&m.TripID, &m.TripNumber, &m.VehicleNumber, &m.DriverName, &m.SourceLocation, &m.DestinationLocation,
		&m.Status, &m.StartDate, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *PgxTripRepository) FindTripByID(ctx context.Context, tripID string) (*domain.Trip, error) {
	m, err := scanTrip(r.Pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE trip_id = $1;`, tripID))
	if err != nil {
		return nil, translateError(err, "trip "+tripID)
	}
	trip := mapping.ToDomainTrip(m)
	return &trip, nil
}

func (r *PgxTripRepository) ListTrips(ctx context.Context, status *domain.TripStatus, limit int, offset int) ([]domain.Trip, error) {
	limit, offset = normalizePage(limit, offset)
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY start_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		m, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, mapping.ToDomainTrip(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}
	return trips, nil
}

func (r *PgxTripRepository) SaveTrip(ctx context.Context, trip domain.Trip) error {
	m := mapping.ToModelTrip(trip)
	query := `INSERT INTO trips (` + tripColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.Pool.Exec(ctx, query, m.TripID, m.TripNumber, m.VehicleNumber, m.DriverName, m.SourceLocation,
		m.DestinationLocation, m.Status, m.StartDate, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return translateError(err, "save trip "+m.TripNumber)
}

func (r *PgxTripRepository) UpdateTripStatus(ctx context.Context, tripID string, status domain.TripStatus, userID string, now time.Time) error {
	query := `UPDATE trips SET status = $1, last_updated_at = $2, last_updated_by = $3 WHERE trip_id = $4;`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), now, userID, tripID)
	if err != nil {
		return translateError(err, "update trip "+tripID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, apperrors.ErrNotFound)
	}
	return nil
}
