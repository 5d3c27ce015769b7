package push

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Registrar errors, surfaced unretried to the caller for display.
var (
	// ErrRegistrationNotFound indicates no active worker registration exists.
	// The platform-level setup step is expected to have run already; the
	// registrar never retries or polls for it.
	ErrRegistrationNotFound = errors.New("push worker registration not found")

	// ErrPermissionDenied indicates the user has blocked notifications.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrUnsupported indicates the platform lacks push capability.
	ErrUnsupported = errors.New("push not supported on this platform")

	// ErrSubscribe wraps any other platform rejection during subscribe.
	ErrSubscribe = errors.New("push subscribe failed")
)

// DefaultRegistrationTimeout bounds how long the registrar waits on the
// platform's readiness. The platform promise itself has no timeout, so a
// stalled push service would otherwise suspend the caller indefinitely.
const DefaultRegistrationTimeout = 10 * time.Second

// Permission represents the notification permission state of a device.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Registration identifies an active background worker registration.
type Registration struct {
	// Script is the identity of the registered worker script.
	Script string
}

// PlatformSubscription is the raw registration handed back by the platform
// push service: the delivery endpoint plus the payload encryption keys.
type PlatformSubscription struct {
	Endpoint  string
	P256dh    string
	Auth      string
	ExpiresAt *time.Time
}

// WorkerRegistry abstracts the platform's push plumbing so the registrar can
// be exercised without a live device. Implementations talk to the actual
// push service; tests inject fakes.
type WorkerRegistry interface {
	// Supported reports whether the platform has push capability.
	Supported() bool

	// Permission reports the current notification permission state.
	Permission() Permission

	// FindActive locates an existing, currently-active worker registration.
	// Returns ErrRegistrationNotFound if none exists.
	FindActive(ctx context.Context) (*Registration, error)

	// Register requests a new push registration using the application's
	// public key.
	Register(ctx context.Context, applicationPublicKey []byte) (*PlatformSubscription, error)

	// Unregister cancels the active push registration. Returns false if
	// the platform reports no active registration.
	Unregister(ctx context.Context) (bool, error)
}

// State is the registrar state surfaced to callers. It is derived, never
// persisted.
type State struct {
	Supported   bool       `json:"supported"`
	Permission  Permission `json:"permission"`
	Subscribed  bool       `json:"subscribed"`
	Subscribing bool       `json:"subscribing"`
}

// Registrar maintains one live push registration per device/browser pairing
// and keeps the stored subscription record synchronized with it.
type Registrar struct {
	registry WorkerRegistry
	repo     Repository
	logger   zerolog.Logger
	timeout  time.Duration

	mu          sync.Mutex
	subscribing bool
}

// RegistrarConfig holds configuration for creating a Registrar.
type RegistrarConfig struct {
	Registry WorkerRegistry
	Repo     Repository
	Logger   zerolog.Logger

	// Timeout bounds EnsureActiveRegistration. Zero uses
	// DefaultRegistrationTimeout.
	Timeout time.Duration
}

// NewRegistrar creates a new push registrar.
func NewRegistrar(cfg RegistrarConfig) *Registrar {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRegistrationTimeout
	}

	return &Registrar{
		registry: cfg.Registry,
		repo:     cfg.Repo,
		logger:   cfg.Logger,
		timeout:  timeout,
	}
}

// EnsureActiveRegistration locates the active worker registration, bounded
// by the configured timeout. It never retries: a missing registration means
// the platform setup step did not run, which is not this component's fault
// to repair.
func (r *Registrar) EnsureActiveRegistration(ctx context.Context) (*Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reg, err := r.registry.FindActive(ctx)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("find active registration: %w", err)
	}

	return reg, nil
}

// Subscribe requests a new push registration from the platform and upserts
// the resulting subscription record under the given user. The permission
// check happens before any platform call is attempted.
func (r *Registrar) Subscribe(ctx context.Context, userID string, applicationPublicKey []byte) (*Subscription, error) {
	if !r.registry.Supported() {
		return nil, ErrUnsupported
	}
	if r.registry.Permission() == PermissionDenied {
		return nil, ErrPermissionDenied
	}

	r.setSubscribing(true)
	defer r.setSubscribing(false)

	if _, err := r.EnsureActiveRegistration(ctx); err != nil {
		return nil, err
	}

	platformSub, err := r.registry.Register(ctx, applicationPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubscribe, err)
	}

	now := time.Now()
	sub := &Subscription{
		ID:        "sub_" + uuid.New().String()[:22],
		UserID:    userID,
		Endpoint:  platformSub.Endpoint,
		P256dh:    platformSub.P256dh,
		Auth:      platformSub.Auth,
		ExpiresAt: platformSub.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := r.repo.Upsert(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("store subscription: %w", err)
	}

	r.logger.Info().
		Str("user_id", userID).
		Str("endpoint_host", sub.EndpointHost()).
		Bool("created", created).
		Msg("push subscription registered")

	if !created {
		// The store kept the prior record's ID; read it back so the
		// caller sees the canonical record.
		existing, err := r.repo.GetByEndpoint(ctx, sub.Endpoint)
		if err == nil {
			return existing, nil
		}
	}

	return sub, nil
}

// Unsubscribe cancels the active platform registration, then removes the
// stored record. When the platform reports no active registration, removing
// the stored record is the only required action. Deleting an already-absent
// record is treated as success.
func (r *Registrar) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	active, err := r.registry.Unregister(ctx)
	if err != nil {
		return fmt.Errorf("platform unregister: %w", err)
	}
	if !active {
		r.logger.Debug().
			Str("user_id", userID).
			Msg("no active platform registration, removing stored record only")
	}

	if err := r.repo.DeleteByEndpoint(ctx, userID, endpoint); err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil
		}
		return fmt.Errorf("delete subscription: %w", err)
	}

	return nil
}

// State reports the current registrar state for the given user.
func (r *Registrar) State(ctx context.Context, userID string) (*State, error) {
	result, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	subscribing := r.subscribing
	r.mu.Unlock()

	return &State{
		Supported:   r.registry.Supported(),
		Permission:  r.registry.Permission(),
		Subscribed:  len(result.Items) > 0,
		Subscribing: subscribing,
	}, nil
}

func (r *Registrar) setSubscribing(v bool) {
	r.mu.Lock()
	r.subscribing = v
	r.mu.Unlock()
}
