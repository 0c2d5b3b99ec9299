package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

var ErrMaintenanceNotFound = errors.New("maintenance record not found")

const maintenanceColumns = `id, vehicle_type, vehicle_id, type, scheduled_date, completed_date, cost, notes, created_at, updated_at`

type MaintenanceRepository struct {
	pool *pgxpool.Pool
}

func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{pool: pool}
}

func (r *MaintenanceRepository) Create(ctx context.Context, record models.MaintenanceRecord) error {
	const query = `
		INSERT INTO maintenance_records (
			id, vehicle_type, vehicle_id, type, scheduled_date, completed_date, cost, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.VehicleType,
		record.VehicleID,
		record.Type,
		record.ScheduledDate,
		record.CompletedDate,
		record.Cost,
		record.Notes,
	)
	return err
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, id string) (models.MaintenanceRecord, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_records WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// MaintenanceFilter narrows List. Zero values are ignored.
type MaintenanceFilter struct {
	VehicleType models.VehicleType
	VehicleID   string
}

func (r *MaintenanceRepository) List(ctx context.Context, filter MaintenanceFilter) ([]models.MaintenanceRecord, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_records WHERE TRUE`
	args := []any{}

	if filter.VehicleType != "" {
		args = append(args, filter.VehicleType)
		query += fmt.Sprintf(" AND vehicle_type = $%d", len(args))
	}
	if filter.VehicleID != "" {
		args = append(args, filter.VehicleID)
		query += fmt.Sprintf(" AND vehicle_id = $%d", len(args))
	}
	query += " ORDER BY scheduled_date DESC"

	return r.queryMany(ctx, query, args...)
}

// ListDueBetween returns uncompleted records scheduled inside [from, to).
func (r *MaintenanceRepository) ListDueBetween(ctx context.Context, from, to time.Time, limit int) ([]models.MaintenanceRecord, error) {
	query := `
		SELECT ` + maintenanceColumns + `
		FROM maintenance_records
		WHERE completed_date IS NULL AND scheduled_date >= $1 AND scheduled_date < $2
		ORDER BY scheduled_date ASC
		LIMIT $3
	`
	return r.queryMany(ctx, query, from, to, limit)
}

func (r *MaintenanceRepository) Update(ctx context.Context, record models.MaintenanceRecord) error {
	const query = `
		UPDATE maintenance_records
		SET type = $2, scheduled_date = $3, completed_date = $4, cost = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Type,
		record.ScheduledDate,
		record.CompletedDate,
		record.Cost,
		record.Notes,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMaintenanceNotFound
	}
	return nil
}

func (r *MaintenanceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM maintenance_records WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMaintenanceNotFound
	}
	return nil
}

func (r *MaintenanceRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.MaintenanceRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MaintenanceRecord
	for rows.Next() {
		record, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *MaintenanceRepository) scanOne(row pgx.Row) (models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	if err := row.Scan(
		&record.ID,
		&record.VehicleType,
		&record.VehicleID,
		&record.Type,
		&record.ScheduledDate,
		&record.CompletedDate,
		&record.Cost,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MaintenanceRecord{}, ErrMaintenanceNotFound
		}
		return models.MaintenanceRecord{}, err
	}
	return record, nil
}
