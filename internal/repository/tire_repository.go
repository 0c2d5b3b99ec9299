package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

var ErrTireNotFound = errors.New("tire not found")

const tireColumns = `id, serial_number, brand, size, status, vehicle_type, vehicle_id, mileage_at_install, wear_level, created_at, updated_at`

type TireRepository struct {
	pool *pgxpool.Pool
}

func NewTireRepository(pool *pgxpool.Pool) *TireRepository {
	return &TireRepository{pool: pool}
}

func (r *TireRepository) Create(ctx context.Context, tire models.Tire) error {
	const query = `
		INSERT INTO tires (
			id, serial_number, brand, size, status, vehicle_type, vehicle_id, mileage_at_install, wear_level, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		tire.ID,
		tire.SerialNumber,
		tire.Brand,
		tire.Size,
		tire.Status,
		tire.VehicleType,
		tire.VehicleID,
		tire.MileageAtInstall,
		tire.WearLevel,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TireRepository) GetByID(ctx context.Context, id string) (models.Tire, error) {
	query := `SELECT ` + tireColumns + ` FROM tires WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *TireRepository) List(ctx context.Context) ([]models.Tire, error) {
	query := `SELECT ` + tireColumns + ` FROM tires ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tires []models.Tire
	for rows.Next() {
		tire, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		tires = append(tires, tire)
	}
	return tires, rows.Err()
}

func (r *TireRepository) Update(ctx context.Context, tire models.Tire) error {
	const query = `
		UPDATE tires
		SET serial_number = $2, brand = $3, size = $4, status = $5,
		    vehicle_type = $6, vehicle_id = $7, mileage_at_install = $8, wear_level = $9,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		tire.ID,
		tire.SerialNumber,
		tire.Brand,
		tire.Size,
		tire.Status,
		tire.VehicleType,
		tire.VehicleID,
		tire.MileageAtInstall,
		tire.WearLevel,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTireNotFound
	}
	return nil
}

func (r *TireRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tires WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTireNotFound
	}
	return nil
}

func (r *TireRepository) scanOne(row pgx.Row) (models.Tire, error) {
	var tire models.Tire
	if err := row.Scan(
		&tire.ID,
		&tire.SerialNumber,
		&tire.Brand,
		&tire.Size,
		&tire.Status,
		&tire.VehicleType,
		&tire.VehicleID,
		&tire.MileageAtInstall,
		&tire.WearLevel,
		&tire.CreatedAt,
		&tire.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Tire{}, ErrTireNotFound
		}
		return models.Tire{}, err
	}
	return tire, nil
}
