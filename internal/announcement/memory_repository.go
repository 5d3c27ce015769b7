package announcement

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL implementation.
type InMemoryRepository struct {
	mu   sync.RWMutex
	anns map[string]*Announcement // keyed by announcement ID
}

// NewInMemoryRepository creates a new in-memory announcement repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		anns: make(map[string]*Announcement),
	}
}

// Get retrieves an announcement by ID.
func (r *InMemoryRepository) Get(_ context.Context, announcementID string) (*Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ann, ok := r.anns[announcementID]
	if !ok {
		return nil, ErrAnnouncementNotFound
	}

	return copyAnnouncement(ann), nil
}

// List retrieves announcements, pinned first then newest first.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*Announcement
	for _, ann := range r.anns {
		items = append(items, copyAnnouncement(ann))
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Pinned != items[j].Pinned {
			return items[i].Pinned
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(items) > limit {
		items = items[:limit]
	}

	return &ListResult{Items: items}, nil
}

// Create creates a new announcement.
func (r *InMemoryRepository) Create(_ context.Context, ann *Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.anns[ann.ID] = copyAnnouncement(ann)
	return nil
}

// Delete deletes an announcement.
func (r *InMemoryRepository) Delete(_ context.Context, announcementID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.anns[announcementID]; !ok {
		return ErrAnnouncementNotFound
	}

	delete(r.anns, announcementID)
	return nil
}

// copyAnnouncement creates a copy of an announcement.
func copyAnnouncement(a *Announcement) *Announcement {
	if a == nil {
		return nil
	}
	annCopy := *a
	return &annCopy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
