package shift

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
)

// Validation constants.
const (
	MaxTitleLength    = 120
	MaxLocationLength = 120
	MaxNotesLength    = 500
)

// Notifier publishes a notification job for a user. Implementations either
// deliver inline or enqueue for the dispatch worker.
type Notifier interface {
	NotifyUser(ctx context.Context, userID string, payload notify.Payload) error
}

// Service provides shift operations.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   zerolog.Logger
}

// ServiceConfig holds configuration for creating a shift Service.
type ServiceConfig struct {
	Repo Repository

	// Notifier may be nil, in which case shift changes produce no
	// notifications.
	Notifier Notifier

	Logger zerolog.Logger
}

// NewService creates a new shift service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:     cfg.Repo,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
}

// List retrieves shifts for a user.
func (s *Service) List(ctx context.Context, userID string, limit int, from *time.Time) (*models.PagedShifts, error) {
	result, err := s.repo.ListByUser(ctx, userID, ListOptions{Limit: limit, From: from})
	if err != nil {
		return nil, err
	}

	items := make([]models.Shift, 0, len(result.Items))
	for _, sh := range result.Items {
		items = append(items, s.toAPIShift(sh))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedShifts{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a shift by ID for a user.
func (s *Service) Get(ctx context.Context, userID, shiftID string) (*models.Shift, error) {
	shift, err := s.repo.GetByUserAndID(ctx, userID, shiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	result := s.toAPIShift(shift)
	return &result, nil
}

// Create creates a new shift assignment and notifies the assignee.
func (s *Service) Create(ctx context.Context, input *models.ShiftCreateRequest) (*models.Shift, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	shiftID := "shf_" + uuid.New().String()[:22]

	shift := &Shift{
		ID:        shiftID,
		UserID:    input.UserID,
		Title:     input.Title,
		Location:  input.Location,
		StartsAt:  input.StartsAt.Time(),
		EndsAt:    input.EndsAt.Time(),
		Status:    StatusPending,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, err
	}

	s.notifyAssignee(ctx, shift, "New shift assigned", shift.Title+" at "+shift.Location)

	result := s.toAPIShift(shift)
	return &result, nil
}

// Update updates a shift and notifies the assignee.
func (s *Service) Update(ctx context.Context, userID, shiftID string, input *models.ShiftUpdateRequest) (*models.Shift, error) {
	shift, err := s.repo.GetByUserAndID(ctx, userID, shiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Title != nil {
		shift.Title = *input.Title
	}
	if input.Location != nil {
		shift.Location = *input.Location
	}
	if input.StartsAt != nil {
		shift.StartsAt = input.StartsAt.Time()
	}
	if input.EndsAt != nil {
		shift.EndsAt = input.EndsAt.Time()
	}
	if input.Notes != nil {
		shift.Notes = input.Notes
	}
	if shift.EndsAt.Before(shift.StartsAt) || shift.EndsAt.Equal(shift.StartsAt) {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "endsAt", Message: "must be after startsAt"},
		}}
	}
	shift.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.notifyAssignee(ctx, shift, "Shift updated", shift.Title+" at "+shift.Location)

	result := s.toAPIShift(shift)
	return &result, nil
}

// SetStatus records the assignee's confirm/decline response.
func (s *Service) SetStatus(ctx context.Context, userID, shiftID string, status Status) (*models.Shift, error) {
	if !status.Valid() {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "status", Message: "must be one of PENDING, CONFIRMED, DECLINED"},
		}}
	}

	shift, err := s.repo.GetByUserAndID(ctx, userID, shiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	shift.Status = status
	shift.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, shift); err != nil {
		return nil, err
	}

	result := s.toAPIShift(shift)
	return &result, nil
}

// Delete removes a shift and notifies the assignee of the cancellation.
func (s *Service) Delete(ctx context.Context, userID, shiftID string) error {
	shift, err := s.repo.GetByUserAndID(ctx, userID, shiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return ErrShiftNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, shiftID); err != nil {
		return err
	}

	s.notifyAssignee(ctx, shift, "Shift cancelled", shift.Title+" at "+shift.Location)
	return nil
}

// notifyAssignee publishes a notification job for the shift's assignee.
// Publish failures are logged; they never fail the originating write.
func (s *Service) notifyAssignee(ctx context.Context, shift *Shift, title, body string) {
	if s.notifier == nil {
		return
	}

	payload := notify.Payload{
		Title: title,
		Body:  body,
		URL:   "/shift/" + shift.ID,
	}
	if err := s.notifier.NotifyUser(ctx, shift.UserID, payload); err != nil {
		s.logger.Error().Err(err).
			Str("shift_id", shift.ID).
			Str("user_id", shift.UserID).
			Msg("failed to publish shift notification")
	}
}

// validateCreateInput validates the create shift input.
func (s *Service) validateCreateInput(input *models.ShiftCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.UserID == "" {
		errs = append(errs, models.FieldError{Field: "userId", Message: "is required"})
	}

	if input.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "is required"})
	} else if len(input.Title) > MaxTitleLength {
		errs = append(errs, models.FieldError{Field: "title", Message: "must be at most 120 characters"})
	}

	if len(input.Location) > MaxLocationLength {
		errs = append(errs, models.FieldError{Field: "location", Message: "must be at most 120 characters"})
	}

	if input.StartsAt.Time().IsZero() {
		errs = append(errs, models.FieldError{Field: "startsAt", Message: "is required"})
	}
	if input.EndsAt.Time().IsZero() {
		errs = append(errs, models.FieldError{Field: "endsAt", Message: "is required"})
	} else if !input.EndsAt.Time().After(input.StartsAt.Time()) {
		errs = append(errs, models.FieldError{Field: "endsAt", Message: "must be after startsAt"})
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateUpdateInput validates the update shift input.
func (s *Service) validateUpdateInput(input *models.ShiftUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Title != nil {
		if *input.Title == "" {
			errs = append(errs, models.FieldError{Field: "title", Message: "cannot be empty"})
		} else if len(*input.Title) > MaxTitleLength {
			errs = append(errs, models.FieldError{Field: "title", Message: "must be at most 120 characters"})
		}
	}

	if input.Location != nil && len(*input.Location) > MaxLocationLength {
		errs = append(errs, models.FieldError{Field: "location", Message: "must be at most 120 characters"})
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// toAPIShift converts a domain Shift to an API Shift.
func (s *Service) toAPIShift(sh *Shift) models.Shift {
	return models.Shift{
		ID:        sh.ID,
		UserID:    sh.UserID,
		Title:     sh.Title,
		Location:  sh.Location,
		StartsAt:  models.Timestamp(sh.StartsAt),
		EndsAt:    models.Timestamp(sh.EndsAt),
		Status:    models.ShiftStatus(sh.Status),
		Notes:     sh.Notes,
		CreatedAt: models.Timestamp(sh.CreatedAt),
		UpdatedAt: models.Timestamp(sh.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
