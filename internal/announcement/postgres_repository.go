package announcement

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

// NewPostgresRepository creates a new PostgreSQL announcement repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an announcement by ID.
func (r *PostgresRepository) Get(ctx context.Context, announcementID string) (*Announcement, error) {
	query := `
		SELECT id, author_id, title, body, pinned, created_at, updated_at
		FROM announcements
		WHERE id = $1
	`

	var ann Announcement
	err := r.pool.QueryRow(ctx, query, announcementID).Scan(
		&ann.ID,
		&ann.AuthorID,
		&ann.Title,
		&ann.Body,
		&ann.Pinned,
		&ann.CreatedAt,
		&ann.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	return &ann, nil
}

// List retrieves announcements, pinned first then newest first.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	query := `
		SELECT id, author_id, title, body, pinned, created_at, updated_at
		FROM announcements
		ORDER BY pinned DESC, created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anns []*Announcement
	for rows.Next() {
		var ann Announcement
		err := rows.Scan(
			&ann.ID,
			&ann.AuthorID,
			&ann.Title,
			&ann.Body,
			&ann.Pinned,
			&ann.CreatedAt,
			&ann.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		anns = append(anns, &ann)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: anns}

	if len(anns) > limit {
		result.Items = anns[:limit]
		result.NextCursor = anns[limit-1].ID
	}

	return result, nil
}

// Create creates a new announcement.
func (r *PostgresRepository) Create(ctx context.Context, ann *Announcement) error {
	query := `
		INSERT INTO announcements (id, author_id, title, body, pinned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		ann.ID,
		ann.AuthorID,
		ann.Title,
		ann.Body,
		ann.Pinned,
		ann.CreatedAt,
		ann.UpdatedAt,
	)
	return err
}

// Delete deletes an announcement.
func (r *PostgresRepository) Delete(ctx context.Context, announcementID string) error {
	query := `DELETE FROM announcements WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, announcementID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
