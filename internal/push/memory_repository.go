package push

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL implementation.
type InMemoryRepository struct {
	mu        sync.RWMutex
	subs      map[string]*Subscription // keyed by subscription ID
	endpoints map[string]string        // endpoint -> subscription ID mapping
}

// NewInMemoryRepository creates a new in-memory push subscription repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		subs:      make(map[string]*Subscription),
		endpoints: make(map[string]string),
	}
}

// Get retrieves a subscription by user ID and subscription ID.
func (r *InMemoryRepository) Get(_ context.Context, userID, subscriptionID string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[subscriptionID]
	if !ok || sub.UserID != userID {
		return nil, ErrSubscriptionNotFound
	}

	return copySubscription(sub), nil
}

// GetByEndpoint retrieves a subscription by its endpoint URL.
func (r *InMemoryRepository) GetByEndpoint(_ context.Context, endpoint string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.endpoints[endpoint]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}

	sub, ok := r.subs[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}

	return copySubscription(sub), nil
}

// ListByUser retrieves all subscriptions for a user.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*Subscription
	for _, sub := range r.subs {
		if sub.UserID == userID {
			items = append(items, copySubscription(sub))
		}
	}

	return &ListResult{Items: items}, nil
}

// ListUserIDs retrieves the distinct user IDs holding at least one subscription.
func (r *InMemoryRepository) ListUserIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var userIDs []string
	for _, sub := range r.subs {
		if _, ok := seen[sub.UserID]; ok {
			continue
		}
		seen[sub.UserID] = struct{}{}
		userIDs = append(userIDs, sub.UserID)
	}

	return userIDs, nil
}

// Upsert creates or updates a subscription keyed by endpoint.
// Returns true if a new subscription was created, false if updated.
func (r *InMemoryRepository) Upsert(_ context.Context, sub *Subscription) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// An existing record for the same endpoint is replaced in place,
	// keeping its server-assigned ID stable.
	if existingID, ok := r.endpoints[sub.Endpoint]; ok {
		existing := r.subs[existingID]
		existing.UserID = sub.UserID
		existing.P256dh = sub.P256dh
		existing.Auth = sub.Auth
		existing.ExpiresAt = sub.ExpiresAt
		existing.UpdatedAt = sub.UpdatedAt
		return false, nil
	}

	r.subs[sub.ID] = copySubscription(sub)
	r.endpoints[sub.Endpoint] = sub.ID
	return true, nil
}

// Delete deletes a subscription by user ID and subscription ID.
func (r *InMemoryRepository) Delete(_ context.Context, userID, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[subscriptionID]
	if !ok || sub.UserID != userID {
		return ErrSubscriptionNotFound
	}

	delete(r.endpoints, sub.Endpoint)
	delete(r.subs, subscriptionID)
	return nil
}

// DeleteByEndpoint deletes the user's subscription for the given endpoint.
func (r *InMemoryRepository) DeleteByEndpoint(_ context.Context, userID, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.endpoints[endpoint]
	if !ok {
		return ErrSubscriptionNotFound
	}

	sub, ok := r.subs[id]
	if !ok || sub.UserID != userID {
		return ErrSubscriptionNotFound
	}

	delete(r.endpoints, endpoint)
	delete(r.subs, id)
	return nil
}

// DeleteByUser deletes all subscriptions for a user.
func (r *InMemoryRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sub := range r.subs {
		if sub.UserID == userID {
			delete(r.endpoints, sub.Endpoint)
			delete(r.subs, id)
		}
	}
	return nil
}

// copySubscription creates a deep copy of a subscription.
func copySubscription(s *Subscription) *Subscription {
	if s == nil {
		return nil
	}

	subCopy := &Subscription{
		ID:        s.ID,
		UserID:    s.UserID,
		Endpoint:  s.Endpoint,
		P256dh:    s.P256dh,
		Auth:      s.Auth,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if s.ExpiresAt != nil {
		val := *s.ExpiresAt
		subCopy.ExpiresAt = &val
	}

	return subCopy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
