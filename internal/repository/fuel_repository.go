package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

var ErrFuelRecordNotFound = errors.New("fuel record not found")

const fuelColumns = `id, truck_id, driver_id, trip_id, filled_at, odometer, liters, price_per_liter, total_cost, full_tank, created_at, updated_at`

type FuelRepository struct {
	pool *pgxpool.Pool
}

func NewFuelRepository(pool *pgxpool.Pool) *FuelRepository {
	return &FuelRepository{pool: pool}
}

func (r *FuelRepository) Create(ctx context.Context, record models.FuelRecord) error {
	const query = `
		INSERT INTO fuel_records (
			id, truck_id, driver_id, trip_id, filled_at, odometer, liters, price_per_liter, total_cost, full_tank, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.TruckID,
		record.DriverID,
		record.TripID,
		record.FilledAt,
		record.Odometer,
		record.Liters,
		record.PricePerLiter,
		record.TotalCost,
		record.FullTank,
	)
	return err
}

func (r *FuelRepository) GetByID(ctx context.Context, id string) (models.FuelRecord, error) {
	query := `SELECT ` + fuelColumns + ` FROM fuel_records WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *FuelRepository) List(ctx context.Context) ([]models.FuelRecord, error) {
	query := `SELECT ` + fuelColumns + ` FROM fuel_records ORDER BY filled_at DESC`
	return r.queryMany(ctx, query)
}

func (r *FuelRepository) ListByTruck(ctx context.Context, truckID string) ([]models.FuelRecord, error) {
	query := `SELECT ` + fuelColumns + ` FROM fuel_records WHERE truck_id = $1 ORDER BY filled_at ASC`
	return r.queryMany(ctx, query, truckID)
}

func (r *FuelRepository) Update(ctx context.Context, record models.FuelRecord) error {
	const query = `
		UPDATE fuel_records
		SET filled_at = $2, odometer = $3, liters = $4, price_per_liter = $5,
		    total_cost = $6, full_tank = $7, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		record.ID,
		record.FilledAt,
		record.Odometer,
		record.Liters,
		record.PricePerLiter,
		record.TotalCost,
		record.FullTank,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrFuelRecordNotFound
	}
	return nil
}

func (r *FuelRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM fuel_records WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrFuelRecordNotFound
	}
	return nil
}

func (r *FuelRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.FuelRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FuelRecord
	for rows.Next() {
		record, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *FuelRepository) scanOne(row pgx.Row) (models.FuelRecord, error) {
	var record models.FuelRecord
	if err := row.Scan(
		&record.ID,
		&record.TruckID,
		&record.DriverID,
		&record.TripID,
		&record.FilledAt,
		&record.Odometer,
		&record.Liters,
		&record.PricePerLiter,
		&record.TotalCost,
		&record.FullTank,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FuelRecord{}, ErrFuelRecordNotFound
		}
		return models.FuelRecord{}, err
	}
	return record, nil
}
