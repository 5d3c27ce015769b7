// Package worker runs notification dispatch jobs triggered by portal events.
package worker

import (
	"context"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
)

// Job types carried on the notification topic.
const (
	// JobTypeDispatch delivers a payload to one user's devices.
	JobTypeDispatch = "notification_dispatch"

	// JobTypeBroadcast delivers a payload to every subscribed user.
	JobTypeBroadcast = "announcement_broadcast"
)

// JobMessage is the wire format of a notification job.
type JobMessage struct {
	JobType string         `json:"job_type"`
	UserID  string         `json:"user_id,omitempty"`
	Payload notify.Payload `json:"payload"`
}

// Dispatcher is the slice of notify.Dispatcher the worker needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, payload notify.Payload) (*notify.DispatchResult, error)
	DispatchAll(ctx context.Context, payload notify.Payload) (*notify.DispatchResult, error)
}
