package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

var ErrTrailerNotFound = errors.New("trailer not found")

const trailerColumns = `id, registration_number, type, capacity, status, created_at, updated_at`

type TrailerRepository struct {
	pool *pgxpool.Pool
}

func NewTrailerRepository(pool *pgxpool.Pool) *TrailerRepository {
	return &TrailerRepository{pool: pool}
}

func (r *TrailerRepository) Create(ctx context.Context, trailer models.Trailer) error {
	const query = `
		INSERT INTO trailers (
			id, registration_number, type, capacity, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		trailer.ID,
		trailer.RegistrationNumber,
		trailer.Type,
		trailer.Capacity,
		trailer.Status,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TrailerRepository) GetByID(ctx context.Context, id string) (models.Trailer, error) {
	query := `SELECT ` + trailerColumns + ` FROM trailers WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *TrailerRepository) List(ctx context.Context) ([]models.Trailer, error) {
	query := `SELECT ` + trailerColumns + ` FROM trailers ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trailers []models.Trailer
	for rows.Next() {
		trailer, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		trailers = append(trailers, trailer)
	}
	return trailers, rows.Err()
}

func (r *TrailerRepository) Update(ctx context.Context, trailer models.Trailer) error {
	const query = `
		UPDATE trailers
		SET registration_number = $2, type = $3, capacity = $4, status = $5, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		trailer.ID,
		trailer.RegistrationNumber,
		trailer.Type,
		trailer.Capacity,
		trailer.Status,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTrailerNotFound
	}
	return nil
}

func (r *TrailerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM trailers WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTrailerNotFound
	}
	return nil
}

func (r *TrailerRepository) scanOne(row pgx.Row) (models.Trailer, error) {
	var trailer models.Trailer
	if err := row.Scan(
		&trailer.ID,
		&trailer.RegistrationNumber,
		&trailer.Type,
		&trailer.Capacity,
		&trailer.Status,
		&trailer.CreatedAt,
		&trailer.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Trailer{}, ErrTrailerNotFound
		}
		return models.Trailer{}, err
	}
	return trailer, nil
}
