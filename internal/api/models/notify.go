package models

// NotificationPayload is the displayable content of a push notification.
type NotificationPayload struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"required,max=500"`
	URL   string `json:"url,omitempty"`
}

// DispatchRequest is the request body for dispatching a notification to one
// user's registered devices.
type DispatchRequest struct {
	UserID  string              `json:"userId" validate:"required"`
	Payload NotificationPayload `json:"payload" validate:"required"`
}

// DispatchResponse summarizes a completed dispatch.
type DispatchResponse struct {
	OKCount   int `json:"okCount"`
	FailCount int `json:"failCount"`
}
