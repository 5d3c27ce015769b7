package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/response"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
)

// NotifyHandler handles the dispatch trigger endpoint.
type NotifyHandler struct {
	dispatcher *notify.Dispatcher
	logger     zerolog.Logger
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(dispatcher *notify.Dispatcher, logger zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{dispatcher: dispatcher, logger: logger}
}

// Dispatch handles POST /v1/notify/dispatch - deliver a payload to every
// device a user has registered. Per-device failures are reflected in the
// counts, not in the response status; only the subscription read is fatal.
func (h *NotifyHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var input models.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validateDispatchRequest(&input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid dispatch request", fieldErrors)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), input.UserID, notify.Payload{
		Title: input.Payload.Title,
		Body:  input.Payload.Body,
		URL:   input.Payload.URL,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", input.UserID).Msg("dispatch failed")
		response.InternalError(w, r, "failed to read subscriptions")
		return
	}

	response.JSON(w, r, http.StatusOK, models.DispatchResponse{
		OKCount:   result.OKCount,
		FailCount: result.FailCount,
	})
}

func validateDispatchRequest(input *models.DispatchRequest) []models.FieldError {
	var errs []models.FieldError
	if input.UserID == "" {
		errs = append(errs, models.FieldError{Field: "userId", Message: "is required"})
	}
	if input.Payload.Title == "" {
		errs = append(errs, models.FieldError{Field: "payload.title", Message: "is required"})
	}
	if input.Payload.Body == "" {
		errs = append(errs, models.FieldError{Field: "payload.body", Message: "is required"})
	}
	return errs
}
