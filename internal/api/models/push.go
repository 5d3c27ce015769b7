package models

// PushSubscription represents a stored web push subscription.
type PushSubscription struct {
	ID        string     `json:"id"`
	Endpoint  string     `json:"endpoint"`
	ExpiresAt *Timestamp `json:"expirationTime,omitempty"`
	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt Timestamp  `json:"updatedAt"`
}

// SubscriptionKeys carries the client key material of a push subscription.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

// SubscribeRequest is the request body for storing a push subscription.
// The shape mirrors the serialized PushSubscription a browser produces.
type SubscribeRequest struct {
	Endpoint       string           `json:"endpoint" validate:"required,url"`
	Keys           SubscriptionKeys `json:"keys" validate:"required"`
	ExpirationTime *Timestamp       `json:"expirationTime,omitempty"`
}

// PagedPushSubscriptions represents a paginated list of push subscriptions.
type PagedPushSubscriptions struct {
	Items []PushSubscription `json:"items"`
	Meta  PagedResponseMeta  `json:"meta"`
}

// VAPIDPublicKey is the response body for the application server key endpoint.
type VAPIDPublicKey struct {
	PublicKey string `json:"publicKey"`
}
