package announcement

import "context"

// Repository defines the interface for announcement persistence.
type Repository interface {
	// Get retrieves an announcement by ID.
	Get(ctx context.Context, announcementID string) (*Announcement, error)

	// List retrieves announcements, pinned first then newest first.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Create creates a new announcement.
	Create(ctx context.Context, ann *Announcement) error

	// Delete deletes an announcement.
	Delete(ctx context.Context, announcementID string) error
}
