package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

var ErrTruckNotFound = errors.New("truck not found")

const truckColumns = `id, registration_number, brand, model, year, status, current_odometer, created_at, updated_at`

type TruckRepository struct {
	pool *pgxpool.Pool
}

func NewTruckRepository(pool *pgxpool.Pool) *TruckRepository {
	return &TruckRepository{pool: pool}
}

func (r *TruckRepository) Create(ctx context.Context, truck models.Truck) error {
	const query = `
		INSERT INTO trucks (
			id, registration_number, brand, model, year, status, current_odometer, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		truck.ID,
		truck.RegistrationNumber,
		truck.Brand,
		truck.Model,
		truck.Year,
		truck.Status,
		truck.CurrentOdometer,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TruckRepository) GetByID(ctx context.Context, id string) (models.Truck, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *TruckRepository) List(ctx context.Context) ([]models.Truck, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trucks []models.Truck
	for rows.Next() {
		truck, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, truck)
	}
	return trucks, rows.Err()
}

func (r *TruckRepository) Update(ctx context.Context, truck models.Truck) error {
	const query = `
		UPDATE trucks
		SET registration_number = $2, brand = $3, model = $4, year = $5,
		    status = $6, current_odometer = $7, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		truck.ID,
		truck.RegistrationNumber,
		truck.Brand,
		truck.Model,
		truck.Year,
		truck.Status,
		truck.CurrentOdometer,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTruckNotFound
	}
	return nil
}

// BumpOdometer raises the stored odometer to reading, never lowers it.
func (r *TruckRepository) BumpOdometer(ctx context.Context, id string, reading float64) error {
	const query = `
		UPDATE trucks
		SET current_odometer = GREATEST(current_odometer, $2), updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, reading)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTruckNotFound
	}
	return nil
}

func (r *TruckRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM trucks WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTruckNotFound
	}
	return nil
}

func (r *TruckRepository) scanOne(row pgx.Row) (models.Truck, error) {
	var truck models.Truck
	if err := row.Scan(
		&truck.ID,
		&truck.RegistrationNumber,
		&truck.Brand,
		&truck.Model,
		&truck.Year,
		&truck.Status,
		&truck.CurrentOdometer,
		&truck.CreatedAt,
		&truck.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Truck{}, ErrTruckNotFound
		}
		return models.Truck{}, err
	}
	return truck, nil
}
