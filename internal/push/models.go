// Package push provides web push subscription registration and management.
package push

import (
	"errors"
	"net/url"
	"time"
)

// Repository errors.
var (
	ErrSubscriptionNotFound = errors.New("push subscription not found")
)

// Subscription represents one browser/device registration for receiving
// web push notifications. A user may hold several, one per device/browser.
type Subscription struct {
	ID        string
	UserID    string
	Endpoint  string
	P256dh    string
	Auth      string
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndpointHost returns the host portion of the push service endpoint.
// Used to scope circuit breakers per push service rather than per device.
func (s *Subscription) EndpointHost() string {
	u, err := url.Parse(s.Endpoint)
	if err != nil || u.Host == "" {
		return s.Endpoint
	}
	return u.Host
}

// ListResult contains the result of listing subscriptions.
type ListResult struct {
	Items []*Subscription
}
