package handlers

import (
	"net/http"

	"github.com/careloop/symptom-intake/internal/application/services"
)

// DashboardHandler serves the per-device dashboard view.
type DashboardHandler struct {
	dashboard *services.DashboardService
	analytics *services.AnalyticsService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard *services.DashboardService, analytics *services.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, analytics: analytics}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Load(r.Context(), deviceID(r))
	if err != nil {
		respondWithAppError(w, err, "failed to load dashboard")
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// GetSymptomDistribution handles GET /api/analytics/symptoms
func (h *DashboardHandler) GetSymptomDistribution(w http.ResponseWriter, r *http.Request) {
	distribution, err := h.analytics.SymptomDistribution(r.Context(), deviceID(r), 25)
	if err != nil {
		respondWithAppError(w, err, "failed to aggregate symptoms")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symptoms": distribution,
		"count":    len(distribution),
	})
}
