package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository runs the aggregation queries behind the report endpoints.
// The reductions happen in SQL; handlers only shape the result.
type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

type FleetStats struct {
	TotalTrucks     int
	ActiveTrucks    int
	TotalTrailers   int
	TotalTrips      int
	ActiveTrips     int
	CompletedTrips  int
	TotalFuelCost   float64
	AvgTripDistance float64
}

func (r *ReportRepository) FleetStats(ctx context.Context) (FleetStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM trucks),
			(SELECT COUNT(*) FROM trucks WHERE status = 'Active'),
			(SELECT COUNT(*) FROM trailers),
			(SELECT COUNT(*) FROM trips),
			(SELECT COUNT(*) FROM trips WHERE status IN ('Planned', 'InProgress')),
			(SELECT COUNT(*) FROM trips WHERE status = 'Completed'),
			(SELECT COALESCE(SUM(total_cost), 0) FROM fuel_records),
			(SELECT COALESCE(AVG(mileage_end - mileage_start), 0)
			 FROM trips
			 WHERE status = 'Completed' AND mileage_start IS NOT NULL AND mileage_end IS NOT NULL)
	`
	var stats FleetStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalTrucks,
		&stats.ActiveTrucks,
		&stats.TotalTrailers,
		&stats.TotalTrips,
		&stats.ActiveTrips,
		&stats.CompletedTrips,
		&stats.TotalFuelCost,
		&stats.AvgTripDistance,
	); err != nil {
		return FleetStats{}, err
	}
	return stats, nil
}

type TruckFuelSummary struct {
	TruckID            string
	RegistrationNumber string
	Brand              string
	Model              string
	TotalLiters        float64
	TotalCost          float64
	Records            int
}

func (r *ReportRepository) FuelConsumptionByTruck(ctx context.Context, from, to *time.Time) ([]TruckFuelSummary, error) {
	query := `
		SELECT f.truck_id, t.registration_number, t.brand, t.model,
		       SUM(f.liters), SUM(f.total_cost), COUNT(*)
		FROM fuel_records f
		JOIN trucks t ON t.id = f.truck_id
		WHERE TRUE
	`
	args := []any{}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND f.filled_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND f.filled_at <= $%d", len(args))
	}
	query += `
		GROUP BY f.truck_id, t.registration_number, t.brand, t.model
		ORDER BY SUM(f.total_cost) DESC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []TruckFuelSummary
	for rows.Next() {
		var s TruckFuelSummary
		if err := rows.Scan(&s.TruckID, &s.RegistrationNumber, &s.Brand, &s.Model, &s.TotalLiters, &s.TotalCost, &s.Records); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

type VehicleMaintenanceSummary struct {
	VehicleID          string
	VehicleType        string
	RegistrationNumber string
	TotalCost          float64
	Records            int
}

func (r *ReportRepository) MaintenanceCostsByVehicle(ctx context.Context, from, to *time.Time) ([]VehicleMaintenanceSummary, error) {
	query := `
		SELECT m.vehicle_id, m.vehicle_type,
		       COALESCE(tr.registration_number, tl.registration_number, ''),
		       SUM(m.cost), COUNT(*)
		FROM maintenance_records m
		LEFT JOIN trucks tr ON m.vehicle_type = 'Truck' AND tr.id = m.vehicle_id
		LEFT JOIN trailers tl ON m.vehicle_type = 'Trailer' AND tl.id = m.vehicle_id
		WHERE m.completed_date IS NOT NULL
	`
	args := []any{}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND m.scheduled_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND m.scheduled_date <= $%d", len(args))
	}
	query += `
		GROUP BY m.vehicle_id, m.vehicle_type, tr.registration_number, tl.registration_number
		ORDER BY SUM(m.cost) DESC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []VehicleMaintenanceSummary
	for rows.Next() {
		var s VehicleMaintenanceSummary
		if err := rows.Scan(&s.VehicleID, &s.VehicleType, &s.RegistrationNumber, &s.TotalCost, &s.Records); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

type TripStats struct {
	Total            int
	Completed        int
	InProgress       int
	Planned          int
	Cancelled        int
	AvgDurationHours float64
}

func (r *ReportRepository) TripStats(ctx context.Context) (TripStats, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Completed'),
			COUNT(*) FILTER (WHERE status = 'InProgress'),
			COUNT(*) FILTER (WHERE status = 'Planned'),
			COUNT(*) FILTER (WHERE status = 'Cancelled'),
			COALESCE(EXTRACT(EPOCH FROM AVG(actual_arrival - actual_departure)
				FILTER (WHERE status = 'Completed' AND actual_departure IS NOT NULL AND actual_arrival IS NOT NULL)
			) / 3600, 0)
		FROM trips
	`
	var stats TripStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Completed,
		&stats.InProgress,
		&stats.Planned,
		&stats.Cancelled,
		&stats.AvgDurationHours,
	); err != nil {
		return TripStats{}, err
	}
	return stats, nil
}
