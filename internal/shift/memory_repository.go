package shift

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL implementation.
type InMemoryRepository struct {
	mu     sync.RWMutex
	shifts map[string]*Shift // keyed by shift ID
}

// NewInMemoryRepository creates a new in-memory shift repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		shifts: make(map[string]*Shift),
	}
}

// GetByUserAndID retrieves a shift owned by the given user.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, shiftID string) (*Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shift, ok := r.shifts[shiftID]
	if !ok || shift.UserID != userID {
		return nil, ErrShiftNotFound
	}

	return copyShift(shift), nil
}

// ListByUser retrieves shifts for a user, newest start time first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*Shift
	for _, shift := range r.shifts {
		if shift.UserID != userID {
			continue
		}
		if opts.From != nil && shift.EndsAt.Before(*opts.From) {
			continue
		}
		items = append(items, copyShift(shift))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].StartsAt.After(items[j].StartsAt)
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

// Create creates a new shift.
func (r *InMemoryRepository) Create(_ context.Context, shift *Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shifts[shift.ID] = copyShift(shift)
	return nil
}

// Update updates an existing shift.
func (r *InMemoryRepository) Update(_ context.Context, shift *Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[shift.ID]; !ok {
		return ErrShiftNotFound
	}

	r.shifts[shift.ID] = copyShift(shift)
	return nil
}

// Delete deletes a shift.
func (r *InMemoryRepository) Delete(_ context.Context, shiftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[shiftID]; !ok {
		return ErrShiftNotFound
	}

	delete(r.shifts, shiftID)
	return nil
}

// copyShift creates a deep copy of a shift.
func copyShift(s *Shift) *Shift {
	if s == nil {
		return nil
	}

	shiftCopy := &Shift{
		ID:        s.ID,
		UserID:    s.UserID,
		Title:     s.Title,
		Location:  s.Location,
		StartsAt:  s.StartsAt,
		EndsAt:    s.EndsAt,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if s.Notes != nil {
		val := *s.Notes
		shiftCopy.Notes = &val
	}

	return shiftCopy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
