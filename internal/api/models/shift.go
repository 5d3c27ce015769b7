package models

// Shift represents a single rostered shift.
type Shift struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Title     string      `json:"title"`
	Location  string      `json:"location"`
	StartsAt  Timestamp   `json:"startsAt"`
	EndsAt    Timestamp   `json:"endsAt"`
	Status    ShiftStatus `json:"status"`
	Notes     *string     `json:"notes,omitempty"`
	CreatedAt Timestamp   `json:"createdAt"`
	UpdatedAt Timestamp   `json:"updatedAt"`
}

// ShiftCreateRequest is the request body for creating a shift.
type ShiftCreateRequest struct {
	UserID   string    `json:"userId" validate:"required"`
	Title    string    `json:"title" validate:"required,max=120"`
	Location string    `json:"location" validate:"required,max=120"`
	StartsAt Timestamp `json:"startsAt" validate:"required"`
	EndsAt   Timestamp `json:"endsAt" validate:"required"`
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ShiftUpdateRequest is the request body for updating a shift.
// Nil fields are left unchanged.
type ShiftUpdateRequest struct {
	Title    *string    `json:"title,omitempty" validate:"omitempty,max=120"`
	Location *string    `json:"location,omitempty" validate:"omitempty,max=120"`
	StartsAt *Timestamp `json:"startsAt,omitempty"`
	EndsAt   *Timestamp `json:"endsAt,omitempty"`
	Notes    *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ShiftStatusRequest is the request body for confirming or declining a shift.
type ShiftStatusRequest struct {
	Status ShiftStatus `json:"status" validate:"required,oneof=CONFIRMED DECLINED"`
}

// PagedShifts represents a paginated list of shifts.
type PagedShifts struct {
	Items []Shift           `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
