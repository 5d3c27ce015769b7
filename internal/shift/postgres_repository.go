package shift

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL shift repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByUserAndID retrieves a shift owned by the given user.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, shiftID string) (*Shift, error) {
	query := `
		SELECT id, user_id, title, location, starts_at, ends_at, status, notes, created_at, updated_at
		FROM shifts
		WHERE id = $1 AND user_id = $2
	`

	var shift Shift
	err := r.pool.QueryRow(ctx, query, shiftID, userID).Scan(
		&shift.ID,
		&shift.UserID,
		&shift.Title,
		&shift.Location,
		&shift.StartsAt,
		&shift.EndsAt,
		&shift.Status,
		&shift.Notes,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	return &shift, nil
}

// ListByUser retrieves shifts for a user, newest start time first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	query := `
		SELECT id, user_id, title, location, starts_at, ends_at, status, notes, created_at, updated_at
		FROM shifts
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR ends_at >= $2)
		ORDER BY starts_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, opts.From, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*Shift
	for rows.Next() {
		var shift Shift
		err := rows.Scan(
			&shift.ID,
			&shift.UserID,
			&shift.Title,
			&shift.Location,
			&shift.StartsAt,
			&shift.EndsAt,
			&shift.Status,
			&shift.Notes,
			&shift.CreatedAt,
			&shift.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, &shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: shifts}

	if len(shifts) > limit {
		result.Items = shifts[:limit]
		result.NextCursor = shifts[limit-1].ID
	}

	return result, nil
}

// Create creates a new shift.
func (r *PostgresRepository) Create(ctx context.Context, shift *Shift) error {
	query := `
		INSERT INTO shifts (id, user_id, title, location, starts_at, ends_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		shift.ID,
		shift.UserID,
		shift.Title,
		shift.Location,
		shift.StartsAt,
		shift.EndsAt,
		shift.Status,
		shift.Notes,
		shift.CreatedAt,
		shift.UpdatedAt,
	)
	return err
}

// Update updates an existing shift.
func (r *PostgresRepository) Update(ctx context.Context, shift *Shift) error {
	query := `
		UPDATE shifts SET
			title = $2,
			location = $3,
			starts_at = $4,
			ends_at = $5,
			status = $6,
			notes = $7,
			updated_at = $8
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		shift.ID,
		shift.Title,
		shift.Location,
		shift.StartsAt,
		shift.EndsAt,
		shift.Status,
		shift.Notes,
		shift.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// Delete deletes a shift.
func (r *PostgresRepository) Delete(ctx context.Context, shiftID string) error {
	query := `DELETE FROM shifts WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, shiftID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
