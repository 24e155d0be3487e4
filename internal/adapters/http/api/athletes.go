package api

import (
	"context"
	"net/http"
	"strconv"

	service "github.com/okian/scout/internal/app"
)

// AthleteDependencies defines the selector data operations.
type AthleteDependencies interface {
	Athletes(ctx context.Context, selectableOnly bool) []service.AthleteSummary
	Features(ctx context.Context) []string
}

// AthletesHandler serves the athlete and priority selectors.
type AthletesHandler struct {
	deps AthleteDependencies
}

// NewAthletesHandler creates a new athletes handler.
func NewAthletesHandler(deps AthleteDependencies) *AthletesHandler {
	return &AthletesHandler{deps: deps}
}

type athletesResponse struct {
	Athletes []service.AthleteSummary `json:"athletes"`
	Count    int                      `json:"count"`
}

// HandleAthletes handles GET /athletes. By default only athletes that can
// anchor a recommendation are listed; ?all=true lists every name.
func (h *AthletesHandler) HandleAthletes(w http.ResponseWriter, r *http.Request) {
	all := false
	if raw := r.URL.Query().Get("all"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		all = v
	}
	athletes := h.deps.Athletes(r.Context(), !all)
	writeJSON(w, http.StatusOK, athletesResponse{Athletes: athletes, Count: len(athletes)})
}

type featuresResponse struct {
	Options []string `json:"options"`
}

// HandleFeatures handles GET /features: the priority selector options.
func (h *AthletesHandler) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, featuresResponse{Options: h.deps.Features(r.Context())})
}
