// Package notify delivers notification payloads to a user's registered
// push subscriptions, pruning endpoints the push service reports gone.
package notify

import "encoding/json"

// Payload is the message to deliver. The worker script renders it as-is:
// title and body are display-only, data.url is opened on activation.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// wireMessage is the shape the background worker script expects.
type wireMessage struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Data  wireData `json:"data"`
}

type wireData struct {
	URL string `json:"url"`
}

// Encode serializes the payload for delivery. A missing URL falls back to
// the root path so activation always has somewhere to open.
func (p Payload) Encode() ([]byte, error) {
	url := p.URL
	if url == "" {
		url = "/"
	}
	return json.Marshal(wireMessage{
		Title: p.Title,
		Body:  p.Body,
		Data:  wireData{URL: url},
	})
}

// DeliveryResult records the outcome of one delivery attempt. It is not
// persisted beyond logging.
type DeliveryResult struct {
	SubscriptionID string
	OK             bool
	StatusCode     int
	Deleted        bool
}

// DispatchResult aggregates the outcome of all attempts in one dispatch.
type DispatchResult struct {
	OKCount   int
	FailCount int
	Results   []DeliveryResult
}
