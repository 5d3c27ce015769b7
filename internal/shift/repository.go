package shift

import "context"

// Repository defines the interface for shift persistence.
type Repository interface {
	// GetByUserAndID retrieves a shift owned by the given user.
	GetByUserAndID(ctx context.Context, userID, shiftID string) (*Shift, error)

	// ListByUser retrieves shifts for a user, newest start time first.
	ListByUser(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// Create creates a new shift.
	Create(ctx context.Context, shift *Shift) error

	// Update updates an existing shift.
	Update(ctx context.Context, shift *Shift) error

	// Delete deletes a shift.
	Delete(ctx context.Context, shiftID string) error
}
