package worker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
)

// InlineNotifier runs dispatch jobs in-process instead of publishing them to
// a broker. Used for single-instance deployments and local development where
// no Pub/Sub topic is configured.
type InlineNotifier struct {
	dispatcher Dispatcher
	logger     zerolog.Logger
}

// NewInlineNotifier creates an in-process notifier.
func NewInlineNotifier(dispatcher Dispatcher, logger zerolog.Logger) *InlineNotifier {
	return &InlineNotifier{dispatcher: dispatcher, logger: logger}
}

// NotifyUser dispatches to one user's devices immediately.
func (n *InlineNotifier) NotifyUser(ctx context.Context, userID string, payload notify.Payload) error {
	result, err := n.dispatcher.Dispatch(ctx, userID, payload)
	if err != nil {
		return err
	}
	n.logger.Debug().
		Str("user_id", userID).
		Int("ok_count", result.OKCount).
		Int("fail_count", result.FailCount).
		Msg("inline dispatch completed")
	return nil
}

// NotifyAll dispatches to every subscribed user immediately.
func (n *InlineNotifier) NotifyAll(ctx context.Context, payload notify.Payload) error {
	result, err := n.dispatcher.DispatchAll(ctx, payload)
	if err != nil {
		return err
	}
	n.logger.Debug().
		Int("ok_count", result.OKCount).
		Int("fail_count", result.FailCount).
		Msg("inline broadcast completed")
	return nil
}
