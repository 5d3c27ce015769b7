package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/announcement"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/response"
)

const defaultAnnouncementPageLimit = 20

// AnnouncementHandler handles announcement endpoints.
type AnnouncementHandler struct {
	service *announcement.Service
	logger  zerolog.Logger
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(service *announcement.Service, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{service: service, logger: logger}
}

// ListAnnouncements handles GET /v1/announcements.
func (h *AnnouncementHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit := defaultAnnouncementPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			response.BadRequest(w, r, "limit must be between 1 and 100", nil)
			return
		}
		limit = parsed
	}

	result, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list announcements")
		response.InternalError(w, r, "failed to list announcements")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// CreateAnnouncement handles POST /v1/announcements - post a notice and
// broadcast it to every subscribed user.
func (h *AnnouncementHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	authorID := GetUserID(r.Context())

	var input models.AnnouncementCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Create(r.Context(), authorID, &input)
	if err != nil {
		var validationErr *announcement.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid announcement", validationErr.Errors)
			return
		}
		h.logger.Error().Err(err).Msg("failed to create announcement")
		response.InternalError(w, r, "failed to create announcement")
		return
	}

	response.Created(w, r, "/v1/announcements/"+result.ID, result)
}

// DeleteAnnouncement handles DELETE /v1/announcements/{announcementId}.
func (h *AnnouncementHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcementID := chi.URLParam(r, "announcementId")

	if err := h.service.Delete(r.Context(), announcementID); err != nil {
		if errors.Is(err, announcement.ErrAnnouncementNotFound) {
			response.NotFound(w, r, "announcement not found")
			return
		}
		h.logger.Error().Err(err).Str("announcement_id", announcementID).Msg("failed to delete announcement")
		response.InternalError(w, r, "failed to delete announcement")
		return
	}

	response.NoContent(w, r)
}
