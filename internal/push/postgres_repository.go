package push

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

// NewPostgresRepository creates a new PostgreSQL push subscription repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a subscription by user ID and subscription ID.
func (r *PostgresRepository) Get(ctx context.Context, userID, subscriptionID string) (*Subscription, error) {
	query := `
		SELECT id, user_id, endpoint, p256dh, auth, expires_at, created_at, updated_at
		FROM push_subscriptions
		WHERE id = $1 AND user_id = $2
	`

	return r.scanSubscription(ctx, query, subscriptionID, userID)
}

// GetByEndpoint retrieves a subscription by its endpoint URL.
func (r *PostgresRepository) GetByEndpoint(ctx context.Context, endpoint string) (*Subscription, error) {
	query := `
		SELECT id, user_id, endpoint, p256dh, auth, expires_at, created_at, updated_at
		FROM push_subscriptions
		WHERE endpoint = $1
	`

	return r.scanSubscription(ctx, query, endpoint)
}

// scanSubscription scans a single subscription from a query.
func (r *PostgresRepository) scanSubscription(ctx context.Context, query string, args ...interface{}) (*Subscription, error) {
	var sub Subscription

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Endpoint,
		&sub.P256dh,
		&sub.Auth,
		&sub.ExpiresAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return &sub, nil
}

// ListByUser retrieves all subscriptions for a user.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) (*ListResult, error) {
	query := `
		SELECT id, user_id, endpoint, p256dh, auth, expires_at, created_at, updated_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Subscription
	for rows.Next() {
		var sub Subscription
		err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.Endpoint,
			&sub.P256dh,
			&sub.Auth,
			&sub.ExpiresAt,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ListResult{Items: subs}, nil
}

// ListUserIDs retrieves the distinct user IDs holding at least one subscription.
func (r *PostgresRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM push_subscriptions`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return userIDs, nil
}

// Upsert creates or updates a subscription keyed by endpoint.
// Returns true if a new subscription was created, false if updated.
func (r *PostgresRepository) Upsert(ctx context.Context, sub *Subscription) (bool, error) {
	// The endpoint is unique per device+browser+origin, so it is the
	// natural conflict target: re-subscribing the same device replaces
	// the prior record instead of accumulating duplicates.
	query := `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (endpoint) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		sub.ID,
		sub.UserID,
		sub.Endpoint,
		sub.P256dh,
		sub.Auth,
		sub.ExpiresAt,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Scan(&inserted)

	if err != nil {
		return false, err
	}

	return inserted, nil
}

// Delete deletes a subscription by user ID and subscription ID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, subscriptionID string) error {
	query := `DELETE FROM push_subscriptions WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, subscriptionID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// DeleteByEndpoint deletes the user's subscription for the given endpoint.
func (r *PostgresRepository) DeleteByEndpoint(ctx context.Context, userID, endpoint string) error {
	query := `DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`

	result, err := r.pool.Exec(ctx, query, userID, endpoint)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// DeleteByUser deletes all subscriptions for a user.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM push_subscriptions WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
