// Package handler provides HTTP handlers for the staff portal API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/response"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version      string
	buildTime    string
	db           *pgxpool.Pool
	pushServices *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. db and pushServices may be nil
// (readiness then skips the corresponding check).
func NewOpsHandler(version, buildTime string, db *pgxpool.Pool, pushServices *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:      version,
		buildTime:    buildTime,
		db:           db,
		pushServices: pushServices,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			response.ServiceUnavailable(w, r, "database unreachable")
			return
		}
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and push service status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
	}

	dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			dbStatus.Status = models.HealthStatusFail
			status.Status = models.HealthStatusDegraded
		}
	}
	status.Subsystems = append(status.Subsystems, dbStatus)

	if h.pushServices != nil {
		for _, svc := range h.pushServices.GetAllHealth() {
			entry := models.PushServiceStatus{
				Host:   svc.Host,
				Status: models.HealthStatusOK,
			}
			switch {
			case svc.IsUnhealthy():
				entry.Status = models.HealthStatusFail
				status.Status = models.HealthStatusDegraded
			case svc.IsDegraded():
				entry.Status = models.HealthStatusDegraded
			}
			if svc.LastSuccessAt != nil {
				ts := models.Timestamp(*svc.LastSuccessAt)
				entry.LastSuccessAt = &ts
			}
			if svc.LastFailureAt != nil {
				ts := models.Timestamp(*svc.LastFailureAt)
				entry.LastFailureAt = &ts
			}
			if svc.LastError != "" {
				msg := svc.LastError
				entry.Message = &msg
			}
			status.PushServices = append(status.PushServices, entry)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
