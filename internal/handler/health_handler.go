package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/shiva/tripwise/internal/service"
)

// HealthCheck reports whether one backing service is reachable.
type HealthCheck func(ctx context.Context) error

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Catalog  CatalogStats      `json:"catalog"`
}

// CatalogStats summarizes the reference data the resolver is using.
type CatalogStats struct {
	Places int `json:"places"`
	Pairs  int `json:"pairs"`
}

// HealthHandler reports the state of the optional backing services.
// Searches never depend on them, so a failing check marks the service
// degraded, not down.
type HealthHandler struct {
	catalog *service.Catalog
	checks  map[string]HealthCheck
}

// NewHealthHandler creates a health handler for the given catalog.
func NewHealthHandler(catalog *service.Catalog) *HealthHandler {
	return &HealthHandler{catalog: catalog, checks: make(map[string]HealthCheck)}
}

// Register adds a named check. Call before serving.
func (h *HealthHandler) Register(name string, check HealthCheck) {
	h.checks[name] = check
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	places, pairs := h.catalog.Size()
	resp := HealthResponse{
		Status:   "ok",
		Services: make(map[string]string, len(h.checks)),
		Catalog:  CatalogStats{Places: places, Pairs: pairs},
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Services[name] = "unhealthy: " + err.Error()
		} else {
			resp.Services[name] = "healthy"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
