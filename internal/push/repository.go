package push

import "context"

// Repository defines the interface for push subscription persistence.
type Repository interface {
	// Get retrieves a subscription by user ID and subscription ID.
	Get(ctx context.Context, userID, subscriptionID string) (*Subscription, error)

	// GetByEndpoint retrieves a subscription by its endpoint URL.
	GetByEndpoint(ctx context.Context, endpoint string) (*Subscription, error)

	// ListByUser retrieves all subscriptions for a user.
	ListByUser(ctx context.Context, userID string) (*ListResult, error)

	// ListUserIDs retrieves the distinct user IDs holding at least one subscription.
	ListUserIDs(ctx context.Context) ([]string, error)

	// Upsert creates or updates a subscription keyed by endpoint.
	// Returns true if a new subscription was created, false if updated.
	Upsert(ctx context.Context, sub *Subscription) (created bool, err error)

	// Delete deletes a subscription by user ID and subscription ID.
	Delete(ctx context.Context, userID, subscriptionID string) error

	// DeleteByEndpoint deletes the user's subscription for the given endpoint.
	DeleteByEndpoint(ctx context.Context, userID, endpoint string) error

	// DeleteByUser deletes all subscriptions for a user.
	DeleteByUser(ctx context.Context, userID string) error
}
