package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ServiceHealth represents the health status of one push service host.
type ServiceHealth struct {
	// Host is the push service host, e.g. fcm.googleapis.com.
	Host string

	// CircuitState is the current circuit breaker state.
	CircuitState gobreaker.State

	// Counts contains circuit breaker statistics.
	Counts gobreaker.Counts

	// LastSuccessAt is the timestamp of the last successful request.
	LastSuccessAt *time.Time

	// LastFailureAt is the timestamp of the last failed request.
	LastFailureAt *time.Time

	// LastError is the most recent error message, if any.
	LastError string
}

// IsHealthy returns true if the service is considered healthy.
func (h *ServiceHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded returns true if the service is in a degraded state (half-open).
func (h *ServiceHealth) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy returns true if the service is unhealthy (circuit open).
func (h *ServiceHealth) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Registry creates and caches one resilient client per push service host.
// Browsers spread endpoints across a handful of vendor push services; each
// gets its own breaker so they fail independently.
type Registry struct {
	mu        sync.RWMutex
	services  map[string]*registeredService
	newConfig func(name string) ClientConfig
}

type registeredService struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates a new registry. newConfig produces the client config
// for a host seen for the first time; nil uses DefaultClientConfig.
func NewRegistry(newConfig func(name string) ClientConfig) *Registry {
	if newConfig == nil {
		newConfig = DefaultClientConfig
	}
	return &Registry{
		services:  make(map[string]*registeredService),
		newConfig: newConfig,
	}
}

// ClientFor returns the resilient client for the given host, creating it on
// first use.
func (r *Registry) ClientFor(host string) *Client {
	r.mu.RLock()
	s, ok := r.services[host]
	r.mu.RUnlock()
	if ok {
		return s.client
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[host]; ok {
		return s.client
	}

	client := NewClient(r.newConfig(host))
	r.services[host] = &registeredService{client: client}
	return client
}

// RecordSuccess records a successful request for a host.
func (r *Registry) RecordSuccess(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[host]; ok {
		now := time.Now()
		s.lastSuccessAt = &now
	}
}

// RecordFailure records a failed request for a host.
func (r *Registry) RecordFailure(host string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[host]; ok {
		now := time.Now()
		s.lastFailureAt = &now
		if err != nil {
			s.lastError = err.Error()
		}
	}
}

// GetHealth returns the health status of a specific host, or nil if the
// host has never been used.
func (r *Registry) GetHealth(host string) *ServiceHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[host]
	if !ok {
		return nil
	}

	return &ServiceHealth{
		Host:          host,
		CircuitState:  s.client.CircuitBreakerState(),
		Counts:        s.client.CircuitBreakerCounts(),
		LastSuccessAt: s.lastSuccessAt,
		LastFailureAt: s.lastFailureAt,
		LastError:     s.lastError,
	}
}

// GetAllHealth returns the health status of all hosts seen so far.
func (r *Registry) GetAllHealth() []*ServiceHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*ServiceHealth, 0, len(r.services))
	for host, s := range r.services {
		health = append(health, &ServiceHealth{
			Host:          host,
			CircuitState:  s.client.CircuitBreakerState(),
			Counts:        s.client.CircuitBreakerCounts(),
			LastSuccessAt: s.lastSuccessAt,
			LastFailureAt: s.lastFailureAt,
			LastError:     s.lastError,
		})
	}

	return health
}

// HostNames returns the hosts seen so far.
func (r *Registry) HostNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.services))
	for host := range r.services {
		names = append(names, host)
	}
	return names
}

// ServiceCount returns the number of hosts seen so far.
func (r *Registry) ServiceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}
