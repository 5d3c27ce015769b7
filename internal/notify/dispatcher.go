package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/push"
)

// Sender delivers an encoded payload to one subscription endpoint and
// reports the push service's status code. A zero status with a non-nil
// error means the attempt never produced a response (network failure,
// circuit open), which is always classified as transient.
type Sender interface {
	Send(ctx context.Context, sub *push.Subscription, payload []byte) (statusCode int, err error)
}

// Dispatcher delivers one payload to every registered device of a user,
// self-healing the subscription set as a side effect.
type Dispatcher struct {
	repo    push.Repository
	sender  Sender
	metrics *DeliveryMetrics
	logger  zerolog.Logger
}

// DispatcherConfig holds configuration for creating a Dispatcher.
type DispatcherConfig struct {
	Repo   push.Repository
	Sender Sender

	// Metrics may be nil, in which case delivery attempts go unrecorded.
	Metrics *DeliveryMetrics

	Logger zerolog.Logger
}

// NewDispatcher creates a new delivery dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		repo:    cfg.Repo,
		sender:  cfg.Sender,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// Dispatch delivers the payload to every subscription of the target user.
// Attempts run concurrently and independently; completion means every
// attempt has resolved. A user with zero subscriptions yields {0,0} and no
// side effects. Only the subscription read itself is fatal: total delivery
// failure is a non-fatal outcome reported in the counts.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, payload Payload) (*DispatchResult, error) {
	list, err := d.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions for %s: %w", userID, err)
	}

	if len(list.Items) == 0 {
		return &DispatchResult{}, nil
	}

	body, err := payload.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	results := make([]DeliveryResult, len(list.Items))

	var wg sync.WaitGroup
	for i, sub := range list.Items {
		wg.Add(1)
		go func(i int, sub *push.Subscription) {
			defer wg.Done()
			results[i] = d.deliver(ctx, sub, body)
		}(i, sub)
	}
	wg.Wait()

	result := &DispatchResult{Results: results}
	for _, r := range results {
		if r.OK {
			result.OKCount++
		} else {
			result.FailCount++
		}
	}

	d.logger.Info().
		Str("user_id", userID).
		Int("ok", result.OKCount).
		Int("failed", result.FailCount).
		Msg("dispatch completed")

	return result, nil
}

// DispatchAll delivers the payload to every user holding at least one
// subscription. Used for portal-wide announcements. Per-user dispatch
// failures are logged and do not stop the broadcast.
func (d *Dispatcher) DispatchAll(ctx context.Context, payload Payload) (*DispatchResult, error) {
	userIDs, err := d.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribed users: %w", err)
	}

	total := &DispatchResult{}
	for _, userID := range userIDs {
		result, err := d.Dispatch(ctx, userID, payload)
		if err != nil {
			d.logger.Error().Err(err).
				Str("user_id", userID).
				Msg("broadcast dispatch failed for user")
			continue
		}
		total.OKCount += result.OKCount
		total.FailCount += result.FailCount
		total.Results = append(total.Results, result.Results...)
	}

	return total, nil
}

// deliver attempts delivery to one endpoint and classifies the outcome.
// Failures never propagate: they become result entries.
func (d *Dispatcher) deliver(ctx context.Context, sub *push.Subscription, body []byte) DeliveryResult {
	result := DeliveryResult{SubscriptionID: sub.ID}

	start := time.Now()
	status, err := d.sender.Send(ctx, sub, body)
	result.StatusCode = status

	if d.metrics != nil {
		d.metrics.RecordAttempt(ctx, sub.EndpointHost(), status, time.Since(start), err)
	}

	if err != nil && status == 0 {
		d.logger.Warn().Err(err).
			Str("subscription_id", sub.ID).
			Str("endpoint_host", sub.EndpointHost()).
			Msg("push delivery failed")
		return result
	}

	if status >= 200 && status < 300 {
		result.OK = true
		return result
	}

	if permanentlyGone(status) {
		// The push service confirms the endpoint no longer exists.
		// Prune the record so dead endpoints don't accumulate.
		result.Deleted = true
		if d.metrics != nil {
			d.metrics.RecordPrune(ctx, sub.EndpointHost())
		}
		if err := d.repo.Delete(ctx, sub.UserID, sub.ID); err != nil {
			if !errors.Is(err, push.ErrSubscriptionNotFound) {
				d.logger.Error().Err(err).
					Str("subscription_id", sub.ID).
					Msg("failed to prune dead subscription")
			}
		} else {
			d.logger.Info().
				Str("subscription_id", sub.ID).
				Int("status", status).
				Msg("pruned dead subscription")
		}
		return result
	}

	// Transient: 5xx, 429 and the like. The record stays; the next
	// triggering event attempts delivery again.
	d.logger.Warn().
		Str("subscription_id", sub.ID).
		Int("status", status).
		Msg("push delivery failed with transient status")
	return result
}

// permanentlyGone reports whether the status code means the endpoint is
// permanently invalid.
func permanentlyGone(status int) bool {
	return status == http.StatusNotFound || status == http.StatusGone
}
