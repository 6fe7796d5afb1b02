package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/careloop/symptom-intake/internal/application/services"
	"github.com/careloop/symptom-intake/internal/domain/repositories"
)

const defaultHistoryLimit = 20

// ConsultationHandler handles symptom-intake submissions, history and
// recovery resolutions.
type ConsultationHandler struct {
	triage   *services.TriageService
	recovery *services.RecoveryService
}

// NewConsultationHandler creates a new consultation handler.
func NewConsultationHandler(triage *services.TriageService, recovery *services.RecoveryService) *ConsultationHandler {
	return &ConsultationHandler{triage: triage, recovery: recovery}
}

type submitConsultationRequest struct {
	Symptoms string `json:"symptoms"`
	Illness  string `json:"illness,omitempty"`
	Location string `json:"location,omitempty"`
	Contact  struct {
		To   string `json:"to"`
		Name string `json:"name"`
	} `json:"contact"`
}

// SubmitConsultation handles POST /api/consultations
func (h *ConsultationHandler) SubmitConsultation(w http.ResponseWriter, r *http.Request) {
	var payload submitConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.triage.Submit(r.Context(), services.SubmitConsultationInput{
		DeviceID: deviceID(r),
		Symptoms: payload.Symptoms,
		Illness:  payload.Illness,
		Location: payload.Location,
		Contact: services.FollowUpContact{
			To:   payload.Contact.To,
			Name: payload.Contact.Name,
		},
	})
	if err != nil {
		respondWithAppError(w, err, "failed to process consultation")
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

// ListConsultations handles GET /api/consultations
func (h *ConsultationHandler) ListConsultations(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ConsultationFilter{Limit: defaultHistoryLimit}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	consultations, err := h.triage.ListHistory(r.Context(), deviceID(r), filter)
	if err != nil {
		respondWithAppError(w, err, "failed to list consultations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"consultations": consultations,
		"count":         len(consultations),
	})
}

// GetConsultation handles GET /api/consultations/{id}
func (h *ConsultationHandler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	consultation, err := h.triage.GetConsultation(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err, "failed to load consultation")
		return
	}

	respondWithJSON(w, http.StatusOK, consultation)
}

// ResolveRecovery handles POST /api/consultations/{id}/recovery
func (h *ConsultationHandler) ResolveRecovery(w http.ResponseWriter, r *http.Request) {
	var payload services.ResolutionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.recovery.Resolve(r.Context(), r.PathValue("id"), payload); err != nil {
		respondWithAppError(w, err, "failed to record recovery status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
