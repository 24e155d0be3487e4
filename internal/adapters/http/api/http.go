// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	// Recommend runs one full recommendation computation.
	Recommend(ctx context.Context, name, priority string) service.Outcome

	// Selector data.
	Athletes(ctx context.Context, selectableOnly bool) []service.AthleteSummary
	Features(ctx context.Context) []string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	athletesHandler  *AthletesHandler
	recommendHandler *RecommendationHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		athletesHandler:  NewAthletesHandler(deps),
		recommendHandler: NewRecommendationHandler(deps),
	}
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(router *mux.Router) {
	router.Use(RequestIDMiddleware)

	router.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	router.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	router.HandleFunc("/features", MetricsMiddleware(s.athletesHandler.HandleFeatures, "features")).Methods(http.MethodGet)
	router.HandleFunc("/athletes", MetricsMiddleware(s.athletesHandler.HandleAthletes, "athletes")).Methods(http.MethodGet)

	athlete := router.PathPrefix("/athletes/{name}").Subrouter()
	athlete.HandleFunc("/recommendations", MetricsMiddleware(s.recommendHandler.HandleRecommendations, "recommendations")).Methods(http.MethodGet)
	athlete.HandleFunc("/summary", MetricsMiddleware(s.recommendHandler.HandleSummary, "summary")).Methods(http.MethodGet)
	athlete.HandleFunc("/radar.svg", MetricsMiddleware(s.recommendHandler.HandleRadar, "radar")).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(RequestIDHeader)})
}

// writeOutcomeError maps a failed outcome to an HTTP error. Internal failures
// are logged in full and answered with a generic message.
func writeOutcomeError(w http.ResponseWriter, r *http.Request, out service.Outcome) {
	switch out.Status {
	case service.StatusUnknownAthlete:
		writeError(w, http.StatusNotFound, "not_found", out.Err)
	case service.StatusUnknownStat:
		writeError(w, http.StatusBadRequest, "bad_request", out.Err)
	default:
		writeInternal(w, r, fmt.Errorf("outcome %s: %w", out.ID, out.Err))
	}
}

func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	logger.Get().Error(r.Context(), "request failed",
		logger.String("path", r.URL.Path),
		logger.String("requestId", RequestID(r.Context())),
		logger.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
}
