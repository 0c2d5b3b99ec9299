package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

var ErrTripNotFound = errors.New("trip not found")

const tripDetailQuery = `
	SELECT t.id, t.code, t.truck_id, t.trailer_id, t.chauffeur_id, t.origin, t.destination,
	       t.status, t.planned_departure, t.actual_departure, t.actual_arrival,
	       t.mileage_start, t.mileage_end, t.notes, t.created_at, t.updated_at,
	       tr.registration_number, tr.brand, tr.model,
	       tl.registration_number, tl.type,
	       u.first_name, u.last_name
	FROM trips t
	JOIN trucks tr ON tr.id = t.truck_id
	LEFT JOIN trailers tl ON tl.id = t.trailer_id
	JOIN users u ON u.id = t.chauffeur_id
`

type TripRepository struct {
	pool *pgxpool.Pool
}

func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

func (r *TripRepository) Create(ctx context.Context, trip models.Trip) error {
	const query = `
		INSERT INTO trips (
			id, code, truck_id, trailer_id, chauffeur_id, origin, destination, status,
			planned_departure, mileage_start, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.Code,
		trip.TruckID,
		trip.TrailerID,
		trip.ChauffeurID,
		trip.Origin,
		trip.Destination,
		trip.Status,
		trip.PlannedDeparture,
		trip.MileageStart,
		trip.Notes,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TripRepository) GetByID(ctx context.Context, id string) (models.TripDetail, error) {
	query := tripDetailQuery + ` WHERE t.id = $1`
	return r.scanDetail(r.pool.QueryRow(ctx, query, id))
}

func (r *TripRepository) List(ctx context.Context) ([]models.TripDetail, error) {
	query := tripDetailQuery + ` ORDER BY t.created_at DESC`
	return r.queryDetails(ctx, query)
}

func (r *TripRepository) ListByChauffeur(ctx context.Context, chauffeurID string) ([]models.TripDetail, error) {
	query := tripDetailQuery + ` WHERE t.chauffeur_id = $1 ORDER BY t.created_at DESC`
	return r.queryDetails(ctx, query, chauffeurID)
}

func (r *TripRepository) ListRecent(ctx context.Context, limit int) ([]models.TripDetail, error) {
	query := tripDetailQuery + ` ORDER BY t.created_at DESC LIMIT $1`
	return r.queryDetails(ctx, query, limit)
}

// TruckBookedOn reports whether the truck already has a planned or in-progress
// trip departing on the same calendar day.
func (r *TripRepository) TruckBookedOn(ctx context.Context, truckID string, departure time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM trips
			WHERE truck_id = $1
			  AND status IN ('Planned', 'InProgress')
			  AND planned_departure >= $2
			  AND planned_departure < $3
		)
	`
	dayStart := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, departure.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var booked bool
	if err := r.pool.QueryRow(ctx, query, truckID, dayStart, dayEnd).Scan(&booked); err != nil {
		return false, err
	}
	return booked, nil
}

func (r *TripRepository) Update(ctx context.Context, trip models.Trip) error {
	const query = `
		UPDATE trips
		SET truck_id = $2, trailer_id = $3, chauffeur_id = $4, origin = $5, destination = $6,
		    status = $7, planned_departure = $8, actual_departure = $9, actual_arrival = $10,
		    mileage_start = $11, mileage_end = $12, notes = $13, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.TruckID,
		trip.TrailerID,
		trip.ChauffeurID,
		trip.Origin,
		trip.Destination,
		trip.Status,
		trip.PlannedDeparture,
		trip.ActualDeparture,
		trip.ActualArrival,
		trip.MileageStart,
		trip.MileageEnd,
		trip.Notes,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

func (r *TripRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM trips WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

func (r *TripRepository) queryDetails(ctx context.Context, query string, args ...any) ([]models.TripDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []models.TripDetail
	for rows.Next() {
		trip, err := r.scanDetail(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (r *TripRepository) scanDetail(row pgx.Row) (models.TripDetail, error) {
	var trip models.TripDetail
	if err := row.Scan(
		&trip.ID,
		&trip.Code,
		&trip.TruckID,
		&trip.TrailerID,
		&trip.ChauffeurID,
		&trip.Origin,
		&trip.Destination,
		&trip.Status,
		&trip.PlannedDeparture,
		&trip.ActualDeparture,
		&trip.ActualArrival,
		&trip.MileageStart,
		&trip.MileageEnd,
		&trip.Notes,
		&trip.CreatedAt,
		&trip.UpdatedAt,
		&trip.TruckRegistration,
		&trip.TruckBrand,
		&trip.TruckModel,
		&trip.TrailerRegistration,
		&trip.TrailerType,
		&trip.ChauffeurFirstName,
		&trip.ChauffeurLastName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TripDetail{}, ErrTripNotFound
		}
		return models.TripDetail{}, err
	}
	return trip, nil
}
