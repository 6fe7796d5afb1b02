package routes

import (
	"net/http"

	"github.com/careloop/symptom-intake/internal/api/handlers"
	"github.com/careloop/symptom-intake/internal/api/middleware"
	"github.com/careloop/symptom-intake/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	consultationHandler *handlers.ConsultationHandler

	dashboardHandler *handlers.DashboardHandler

	followUpHandler *handlers.FollowUpHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	consultationHandler *handlers.ConsultationHandler,

	dashboardHandler *handlers.DashboardHandler,

	followUpHandler *handlers.FollowUpHandler,

	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		consultationHandler: consultationHandler,

		dashboardHandler: dashboardHandler,

		followUpHandler: followUpHandler,

		metrics: metrics,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Consultation endpoints

	r.mux.HandleFunc("POST /api/consultations", r.consultationHandler.SubmitConsultation)

	r.mux.HandleFunc("GET /api/consultations", r.consultationHandler.ListConsultations)

	r.mux.HandleFunc("GET /api/consultations/{id}", r.consultationHandler.GetConsultation)

	r.mux.HandleFunc("POST /api/consultations/{id}/recovery", r.consultationHandler.ResolveRecovery)

	// Dashboard endpoints

	r.mux.HandleFunc("GET /api/dashboard", r.dashboardHandler.GetDashboard)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/symptoms", r.dashboardHandler.GetSymptomDistribution)

	// Follow-up action links (landed on from notification messages)

	r.mux.HandleFunc("GET /api/followup/respond", r.followUpHandler.Respond)

	// Apply middleware in reverse order (last middleware wraps first)

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflight responses get headers too
	handler = middleware.CORSMiddleware(handler)

	return handler
}
