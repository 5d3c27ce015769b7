package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/response"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/shift"
)

const defaultShiftPageLimit = 50

// ShiftHandler handles shift endpoints.
type ShiftHandler struct {
	service *shift.Service
	logger  zerolog.Logger
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(service *shift.Service, logger zerolog.Logger) *ShiftHandler {
	return &ShiftHandler{service: service, logger: logger}
}

// ListMyShifts handles GET /v1/me/shifts.
func (h *ShiftHandler) ListMyShifts(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	limit := defaultShiftPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			response.BadRequest(w, r, "limit must be between 1 and 200", nil)
			return
		}
		limit = parsed
	}

	var from *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, r, "from must be an RFC3339 timestamp", nil)
			return
		}
		from = &parsed
	}

	result, err := h.service.List(r.Context(), userID, limit, from)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list shifts")
		response.InternalError(w, r, "failed to list shifts")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetShift handles GET /v1/me/shifts/{shiftId}.
func (h *ShiftHandler) GetShift(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	shiftID := chi.URLParam(r, "shiftId")

	result, err := h.service.Get(r.Context(), userID, shiftID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			response.NotFound(w, r, "shift not found")
			return
		}
		h.logger.Error().Err(err).Str("shift_id", shiftID).Msg("failed to get shift")
		response.InternalError(w, r, "failed to get shift")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// CreateShift handles POST /v1/shifts - assign a shift to a user.
func (h *ShiftHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var input models.ShiftCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Create(r.Context(), &input)
	if err != nil {
		var validationErr *shift.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid shift", validationErr.Errors)
			return
		}
		h.logger.Error().Err(err).Msg("failed to create shift")
		response.InternalError(w, r, "failed to create shift")
		return
	}

	response.Created(w, r, "/v1/me/shifts/"+result.ID, result)
}

// UpdateShift handles PATCH /v1/me/shifts/{shiftId}.
func (h *ShiftHandler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	shiftID := chi.URLParam(r, "shiftId")

	var input models.ShiftUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Update(r.Context(), userID, shiftID, &input)
	if err != nil {
		var validationErr *shift.ValidationError
		switch {
		case errors.Is(err, shift.ErrShiftNotFound):
			response.NotFound(w, r, "shift not found")
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "invalid shift", validationErr.Errors)
		default:
			h.logger.Error().Err(err).Str("shift_id", shiftID).Msg("failed to update shift")
			response.InternalError(w, r, "failed to update shift")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// SetShiftStatus handles POST /v1/me/shifts/{shiftId}/status - confirm or
// decline an assignment.
func (h *ShiftHandler) SetShiftStatus(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	shiftID := chi.URLParam(r, "shiftId")

	var input models.ShiftStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.SetStatus(r.Context(), userID, shiftID, shift.Status(input.Status))
	if err != nil {
		var validationErr *shift.ValidationError
		switch {
		case errors.Is(err, shift.ErrShiftNotFound):
			response.NotFound(w, r, "shift not found")
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "invalid status", validationErr.Errors)
		default:
			h.logger.Error().Err(err).Str("shift_id", shiftID).Msg("failed to set shift status")
			response.InternalError(w, r, "failed to set shift status")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// DeleteShift handles DELETE /v1/me/shifts/{shiftId}.
func (h *ShiftHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	shiftID := chi.URLParam(r, "shiftId")

	if err := h.service.Delete(r.Context(), userID, shiftID); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			response.NotFound(w, r, "shift not found")
			return
		}
		h.logger.Error().Err(err).Str("shift_id", shiftID).Msg("failed to delete shift")
		response.InternalError(w, r, "failed to delete shift")
		return
	}

	response.NoContent(w, r)
}
