package handlers

import (
	"net/http"

	"github.com/careloop/symptom-intake/internal/application/services"
)

// FollowUpHandler handles the yes/no action links embedded in
// follow-up notifications.
type FollowUpHandler struct {
	outcome *services.OutcomeService
}

// NewFollowUpHandler creates a new follow-up handler.
func NewFollowUpHandler(outcome *services.OutcomeService) *FollowUpHandler {
	return &FollowUpHandler{outcome: outcome}
}

// Respond handles GET /api/followup/respond?decision=yes|no&risk_id=...
// The patient lands here from the notification message; after the
// response is applied they are redirected to their dashboard.
func (h *FollowUpHandler) Respond(w http.ResponseWriter, r *http.Request) {
	decision := r.URL.Query().Get("decision")
	riskID := r.URL.Query().Get("risk_id")

	if _, err := h.outcome.Respond(r.Context(), deviceID(r), riskID, decision); err != nil {
		respondWithAppError(w, err, "failed to record follow-up response")
		return
	}

	http.Redirect(w, r, "/api/dashboard", http.StatusSeeOther)
}
