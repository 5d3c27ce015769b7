// Package announcement provides portal-wide notices for staff.
package announcement

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// Announcement represents one portal-wide notice.
type Announcement struct {
	ID        string
	AuthorID  string
	Title     string
	Body      string
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListOptions contains options for listing announcements.
type ListOptions struct {
	Limit int
}

// ListResult contains the result of listing announcements.
type ListResult struct {
	Items      []*Announcement
	NextCursor string
}
