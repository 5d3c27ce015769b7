// Package shift provides shift assignment and scheduling for portal staff.
package shift

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrShiftNotFound = errors.New("shift not found")
)

// Status represents the assignee's response to a shift.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDeclined  Status = "DECLINED"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined:
		return true
	}
	return false
}

// Shift represents one scheduled assignment for a staff member.
type Shift struct {
	ID        string
	UserID    string
	Title     string
	Location  string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    Status
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListOptions contains options for listing shifts.
type ListOptions struct {
	Limit int

	// From filters out shifts ending before this time when set.
	From *time.Time
}

// ListResult contains the result of listing shifts.
type ListResult struct {
	Items      []*Shift
	NextCursor string
}
