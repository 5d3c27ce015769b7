package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/response"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/push"
)

// PushHandler handles push subscription endpoints.
type PushHandler struct {
	repo   push.Repository
	keys   *push.VAPIDKeys
	logger zerolog.Logger
}

// NewPushHandler creates a new PushHandler.
func NewPushHandler(repo push.Repository, keys *push.VAPIDKeys, logger zerolog.Logger) *PushHandler {
	return &PushHandler{
		repo:   repo,
		keys:   keys,
		logger: logger,
	}
}

// VAPIDPublicKey handles GET /v1/push/vapid-public-key - the application
// server key browsers pass to pushManager.subscribe.
func (h *PushHandler) VAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.VAPIDPublicKey{
		PublicKey: h.keys.PublicKey,
	})
}

// ListSubscriptions handles GET /v1/me/push/subscriptions.
func (h *PushHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	result, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list subscriptions")
		response.InternalError(w, r, "failed to list subscriptions")
		return
	}

	items := make([]models.PushSubscription, 0, len(result.Items))
	for _, sub := range result.Items {
		items = append(items, toAPISubscription(sub))
	}

	response.JSON(w, r, http.StatusOK, models.PagedPushSubscriptions{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: len(items)},
	})
}

// SaveSubscription handles POST /v1/me/push/subscriptions - store the
// serialized subscription a browser produced. Upserts by endpoint, so
// re-posting after an unsubscribe leaves exactly one record per device.
func (h *PushHandler) SaveSubscription(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validateSubscribeRequest(&input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid subscription", fieldErrors)
		return
	}

	now := time.Now()
	sub := &push.Subscription{
		ID:        "sub_" + uuid.New().String()[:22],
		UserID:    userID,
		Endpoint:  input.Endpoint,
		P256dh:    input.Keys.P256dh,
		Auth:      input.Keys.Auth,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.ExpirationTime != nil {
		t := input.ExpirationTime.Time()
		sub.ExpiresAt = &t
	}

	created, err := h.repo.Upsert(r.Context(), sub)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store subscription")
		response.InternalError(w, r, "failed to store subscription")
		return
	}

	// On update the prior record keeps its id; read it back.
	if !created {
		if existing, err := h.repo.GetByEndpoint(r.Context(), sub.Endpoint); err == nil {
			sub = existing
		}
	}

	body := toAPISubscription(sub)
	if created {
		response.Created(w, r, "/v1/me/push/subscriptions/"+sub.ID, body)
		return
	}
	response.JSON(w, r, http.StatusOK, body)
}

// DeleteSubscription handles DELETE /v1/me/push/subscriptions/{subscriptionId}.
// Deleting an absent subscription succeeds.
func (h *PushHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	subscriptionID := chi.URLParam(r, "subscriptionId")
	if subscriptionID == "" {
		response.BadRequest(w, r, "subscriptionId is required", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), userID, subscriptionID); err != nil && !errors.Is(err, push.ErrSubscriptionNotFound) {
		h.logger.Error().Err(err).
			Str("user_id", userID).
			Str("subscription_id", subscriptionID).
			Msg("failed to delete subscription")
		response.InternalError(w, r, "failed to delete subscription")
		return
	}

	response.NoContent(w, r)
}

func validateSubscribeRequest(input *models.SubscribeRequest) []models.FieldError {
	var errs []models.FieldError
	if input.Endpoint == "" {
		errs = append(errs, models.FieldError{Field: "endpoint", Message: "is required"})
	}
	if input.Keys.P256dh == "" {
		errs = append(errs, models.FieldError{Field: "keys.p256dh", Message: "is required"})
	}
	if input.Keys.Auth == "" {
		errs = append(errs, models.FieldError{Field: "keys.auth", Message: "is required"})
	}
	return errs
}

func toAPISubscription(sub *push.Subscription) models.PushSubscription {
	out := models.PushSubscription{
		ID:        sub.ID,
		Endpoint:  sub.Endpoint,
		CreatedAt: models.Timestamp(sub.CreatedAt),
		UpdatedAt: models.Timestamp(sub.UpdatedAt),
	}
	if sub.ExpiresAt != nil {
		ts := models.Timestamp(*sub.ExpiresAt)
		out.ExpiresAt = &ts
	}
	return out
}
