package routes

import (
	"net/http"

	"github.com/zatekoja/aiclinimatch/internal/api/handlers"
	"github.com/zatekoja/aiclinimatch/internal/api/middleware"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	specialistHandler  *handlers.SpecialistHandler
	intakeHandler      *handlers.IntakeHandler
	geolocationHandler *handlers.GeolocationHandler
	referralHandler    *handlers.ReferralHandler
	analyticsHandler   *handlers.AnalyticsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router. analyticsHandler and cacheMiddleware may be nil.
func NewRouter(
	specialistHandler *handlers.SpecialistHandler,
	intakeHandler *handlers.IntakeHandler,
	geolocationHandler *handlers.GeolocationHandler,
	referralHandler *handlers.ReferralHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		specialistHandler:  specialistHandler,
		intakeHandler:      intakeHandler,
		geolocationHandler: geolocationHandler,
		referralHandler:    referralHandler,
		analyticsHandler:   analyticsHandler,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Specialist catalog
	r.mux.HandleFunc("GET /api/specialists", r.specialistHandler.ListSpecialists)
	r.mux.HandleFunc("GET /api/specialists/search", r.specialistHandler.SearchSpecialists)
	r.mux.HandleFunc("GET /api/specialists/{id}", r.specialistHandler.GetSpecialist)

	// Conversational intake
	r.mux.HandleFunc("POST /api/intake/messages", r.intakeHandler.Message)
	r.mux.HandleFunc("POST /api/intake/matches", r.intakeHandler.Matches)

	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)

	// Referrals
	r.mux.HandleFunc("POST /api/referrals", r.referralHandler.SubmitReferral)
	r.mux.HandleFunc("GET /api/referrals", r.referralHandler.ListReferrals)
	r.mux.HandleFunc("PATCH /api/referrals/{id}", r.referralHandler.UpdateReferral)

	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)
	}

	// Last wrapper runs first
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS outermost so cache hits carry the headers too
	handler = middleware.CORSMiddleware(handler)

	return handler
}
