package resilience_test

import (
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/provider/resilience"
)

func TestRegistry_ClientForCreatesOnce(t *testing.T) {
	registry := resilience.NewRegistry(nil)

	a := registry.ClientFor("fcm.googleapis.com")
	b := registry.ClientFor("fcm.googleapis.com")

	assert.Same(t, a, b, "same host should reuse the client")
	assert.Equal(t, 1, registry.ServiceCount())
}

func TestRegistry_ClientForPerHost(t *testing.T) {
	registry := resilience.NewRegistry(resilience.NoRetryClientConfig)

	a := registry.ClientFor("fcm.googleapis.com")
	b := registry.ClientFor("updates.push.services.mozilla.com")

	assert.NotSame(t, a, b, "distinct hosts must not share a breaker")
	assert.Equal(t, 2, registry.ServiceCount())
}

func TestRegistry_GetHealth(t *testing.T) {
	registry := resilience.NewRegistry(nil)
	registry.ClientFor("fcm.googleapis.com")

	health := registry.GetHealth("fcm.googleapis.com")
	require.NotNil(t, health)
	assert.Equal(t, "fcm.googleapis.com", health.Host)
	assert.Equal(t, gobreaker.StateClosed, health.CircuitState)
	assert.True(t, health.IsHealthy())
	assert.False(t, health.IsDegraded())
	assert.False(t, health.IsUnhealthy())
}

func TestRegistry_GetHealthNotFound(t *testing.T) {
	registry := resilience.NewRegistry(nil)

	health := registry.GetHealth("never-seen.example.com")
	assert.Nil(t, health)
}

func TestRegistry_RecordSuccess(t *testing.T) {
	registry := resilience.NewRegistry(nil)
	registry.ClientFor("fcm.googleapis.com")

	health := registry.GetHealth("fcm.googleapis.com")
	require.NotNil(t, health)
	assert.Nil(t, health.LastSuccessAt)

	registry.RecordSuccess("fcm.googleapis.com")

	health = registry.GetHealth("fcm.googleapis.com")
	require.NotNil(t, health)
	require.NotNil(t, health.LastSuccessAt)
	assert.WithinDuration(t, time.Now(), *health.LastSuccessAt, time.Second)
}

func TestRegistry_RecordFailure(t *testing.T) {
	registry := resilience.NewRegistry(nil)
	registry.ClientFor("fcm.googleapis.com")

	registry.RecordFailure("fcm.googleapis.com", assert.AnError)

	health := registry.GetHealth("fcm.googleapis.com")
	require.NotNil(t, health)
	require.NotNil(t, health.LastFailureAt)
	assert.Equal(t, assert.AnError.Error(), health.LastError)
}

func TestRegistry_RecordUnknownHostDoesNotPanic(t *testing.T) {
	registry := resilience.NewRegistry(nil)

	registry.RecordSuccess("never-seen.example.com")
	registry.RecordFailure("never-seen.example.com", assert.AnError)
}

func TestRegistry_GetAllHealth(t *testing.T) {
	registry := resilience.NewRegistry(nil)

	hosts := []string{
		"fcm.googleapis.com",
		"updates.push.services.mozilla.com",
		"web.push.apple.com",
	}
	for _, h := range hosts {
		registry.ClientFor(h)
	}

	healthList := registry.GetAllHealth()
	assert.Len(t, healthList, 3)

	seen := make(map[string]bool)
	for _, h := range healthList {
		seen[h.Host] = true
		assert.Equal(t, gobreaker.StateClosed, h.CircuitState)
	}
	for _, h := range hosts {
		assert.True(t, seen[h])
	}
}

func TestRegistry_HostNames(t *testing.T) {
	registry := resilience.NewRegistry(nil)

	assert.Empty(t, registry.HostNames())

	registry.ClientFor("fcm.googleapis.com")
	registry.ClientFor("web.push.apple.com")

	names := registry.HostNames()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "fcm.googleapis.com")
	assert.Contains(t, names, "web.push.apple.com")
}

func TestServiceHealth_States(t *testing.T) {
	tests := []struct {
		state      gobreaker.State
		isHealthy  bool
		isDegraded bool
		isUnhealth bool
	}{
		{gobreaker.StateClosed, true, false, false},
		{gobreaker.StateHalfOpen, false, true, false},
		{gobreaker.StateOpen, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			h := &resilience.ServiceHealth{CircuitState: tt.state}
			assert.Equal(t, tt.isHealthy, h.IsHealthy())
			assert.Equal(t, tt.isDegraded, h.IsDegraded())
			assert.Equal(t, tt.isUnhealth, h.IsUnhealthy())
		})
	}
}
