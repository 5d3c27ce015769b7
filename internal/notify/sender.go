package notify

import (
	"context"
	"io"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/provider/resilience"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/push"
)

// DefaultTTL is how long push services hold an undelivered message before
// discarding it. Shift changes are time-sensitive; a day is plenty.
const DefaultTTL = 24 * 60 * 60

// WebPushSender delivers payloads over the Web Push protocol with VAPID
// authentication. HTTP calls go through per-host resilient clients so an
// outage at one push service cannot trip the breaker for another.
type WebPushSender struct {
	keys    *push.VAPIDKeys
	clients *resilience.Registry
	ttl     int
}

// WebPushSenderConfig holds configuration for creating a WebPushSender.
type WebPushSenderConfig struct {
	Keys    *push.VAPIDKeys
	Clients *resilience.Registry

	// TTL in seconds for queued messages at the push service.
	// Zero uses DefaultTTL.
	TTL int
}

// NewWebPushSender creates a sender using the given VAPID keys.
func NewWebPushSender(cfg WebPushSenderConfig) *WebPushSender {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	clients := cfg.Clients
	if clients == nil {
		clients = resilience.NewRegistry(resilience.NoRetryClientConfig)
	}

	return &WebPushSender{
		keys:    cfg.Keys,
		clients: clients,
		ttl:     ttl,
	}
}

// Send encrypts and delivers the payload to the subscription's endpoint.
// The status code is reported even for non-2xx responses; the dispatcher
// owns classification.
func (s *WebPushSender) Send(ctx context.Context, sub *push.Subscription, payload []byte) (int, error) {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	host := sub.EndpointHost()
	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &webpush.Options{
		HTTPClient:      s.clients.ClientFor(host),
		Subscriber:      s.keys.Subscriber,
		VAPIDPublicKey:  s.keys.PublicKey,
		VAPIDPrivateKey: s.keys.PrivateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		s.clients.RecordFailure(host, err)
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Health is per push service, not per endpoint: a 4xx is the service
	// answering about one subscription, so only 5xx and transport failures
	// count against the host.
	if resp.StatusCode >= 500 {
		s.clients.RecordFailure(host, &resilience.ServerError{StatusCode: resp.StatusCode})
	} else {
		s.clients.RecordSuccess(host)
	}

	return resp.StatusCode, nil
}

// Ensure WebPushSender implements Sender.
var _ Sender = (*WebPushSender)(nil)
