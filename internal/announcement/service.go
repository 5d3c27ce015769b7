package announcement

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
	MaxTitleLength = 120
	MaxBodyLength  = 2000
)

// Broadcaster publishes a portal-wide notification job. Implementations
// either deliver inline or enqueue for the dispatch worker.
type Broadcaster interface {
	NotifyAll(ctx context.Context, payload notify.Payload) error
}

// Service provides announcement operations.
type Service struct {
	repo        Repository
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// ServiceConfig holds configuration for creating an announcement Service.
type ServiceConfig struct {
	Repo Repository

	// Broadcaster may be nil, in which case announcements produce no
	// notifications.
	Broadcaster Broadcaster

	Logger zerolog.Logger
}

// NewService creates a new announcement service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:        cfg.Repo,
		broadcaster: cfg.Broadcaster,
		logger:      cfg.Logger,
	}
}

// List retrieves announcements.
func (s *Service) List(ctx context.Context, limit int) (*models.PagedAnnouncements, error) {
	result, err := s.repo.List(ctx, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Announcement, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, s.toAPIAnnouncement(a))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedAnnouncements{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Create creates an announcement and broadcasts it to all subscribed staff.
func (s *Service) Create(ctx context.Context, authorID string, input *models.AnnouncementCreateRequest) (*models.Announcement, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	ann := &Announcement{
		ID:        "ann_" + uuid.New().String()[:22],
		AuthorID:  authorID,
		Title:     input.Title,
		Body:      input.Body,
		Pinned:    input.Pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, ann); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		payload := notify.Payload{
			Title: ann.Title,
			Body:  ann.Body,
			URL:   "/announcements/" + ann.ID,
		}
		if err := s.broadcaster.NotifyAll(ctx, payload); err != nil {
			s.logger.Error().Err(err).
				Str("announcement_id", ann.ID).
				Msg("failed to publish announcement broadcast")
		}
	}

	result := s.toAPIAnnouncement(ann)
	return &result, nil
}

// Delete deletes an announcement.
func (s *Service) Delete(ctx context.Context, announcementID string) error {
	err := s.repo.Delete(ctx, announcementID)
	if err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	return nil
}

// validateCreateInput validates the create announcement input.
func (s *Service) validateCreateInput(input *models.AnnouncementCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "is required"})
	} else if len(input.Title) > MaxTitleLength {
		errs = append(errs, models.FieldError{Field: "title", Message: "must be at most 120 characters"})
	}

	if input.Body == "" {
		errs = append(errs, models.FieldError{Field: "body", Message: "is required"})
	} else if len(input.Body) > MaxBodyLength {
		errs = append(errs, models.FieldError{Field: "body", Message: "must be at most 2000 characters"})
	}

	return errs
}

// toAPIAnnouncement converts a domain Announcement to an API Announcement.
func (s *Service) toAPIAnnouncement(a *Announcement) models.Announcement {
	return models.Announcement{
		ID:        a.ID,
		AuthorID:  a.AuthorID,
		Title:     a.Title,
		Body:      a.Body,
		Pinned:    a.Pinned,
		CreatedAt: models.Timestamp(a.CreatedAt),
		UpdatedAt: models.Timestamp(a.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
