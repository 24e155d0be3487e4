package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/scout/internal/adapters/chart"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/model"
)

// RecommendDependencies defines the recommendation operation.
type RecommendDependencies interface {
	Recommend(ctx context.Context, name, priority string) service.Outcome
}

// RecommendationHandler serves recommendation results as JSON, text and SVG.
type RecommendationHandler struct {
	deps RecommendDependencies
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendDependencies) *RecommendationHandler {
	return &RecommendationHandler{deps: deps}
}

// AthleteView is the wire shape of an athlete.
type AthleteView struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	MarketValue string `json:"marketValue,omitempty"`
}

// CandidateView is the wire shape of a bucketed candidate.
type CandidateView struct {
	AthleteView
	Bucket   string  `json:"bucket"`
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
}

// SeriesView is one radar polygon.
type SeriesView struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Percentiles []int  `json:"percentiles"`
}

// RecommendationResponse mirrors the result of GET /athletes/{name}/recommendations.
type RecommendationResponse struct {
	ID           string          `json:"id"`
	Reference    AthleteView     `json:"reference"`
	Metric       string          `json:"metric"`
	PriorityStat string          `json:"priorityStat,omitempty"`
	CohortSize   int             `json:"cohortSize"`
	Candidates   []CandidateView `json:"candidates"`
	Axes         []string        `json:"axes"`
	Profiles     []SeriesView    `json:"profiles"`
	Warning      string          `json:"warning,omitempty"`
}

// NewRecommendationResponse converts a successful outcome to its wire shape.
func NewRecommendationResponse(out service.Outcome) RecommendationResponse {
	res := out.Result
	resp := RecommendationResponse{
		ID:           out.ID,
		Reference:    athleteView(res.Reference),
		Metric:       res.Metric,
		PriorityStat: res.PriorityStat,
		CohortSize:   res.CohortSize,
		Candidates:   make([]CandidateView, 0, len(res.Candidates)),
		Axes:         out.Axes,
		Profiles:     make([]SeriesView, 0, len(out.Profiles)),
		Warning:      out.Warning,
	}
	for _, c := range res.Candidates {
		resp.Candidates = append(resp.Candidates, CandidateView{
			AthleteView: athleteView(c.Athlete),
			Bucket:      string(c.Bucket),
			Label:       c.Bucket.Label(),
			Distance:    c.Distance,
		})
	}
	for _, p := range out.Profiles {
		resp.Profiles = append(resp.Profiles, SeriesView{Name: p.Name, Label: p.Label, Percentiles: p.Percentiles})
	}
	return resp
}

func athleteView(a model.AthleteRecord) AthleteView {
	v := AthleteView{Name: a.Name, Role: a.Role}
	if a.HasMarketValue() {
		v.MarketValue = a.MarketValue.Decimal.String()
	}
	return v
}

// recommend runs the computation for the request and writes the error
// response when it did not succeed.
func (h *RecommendationHandler) recommend(w http.ResponseWriter, r *http.Request) (service.Outcome, bool) {
	name := mux.Vars(r)["name"]
	out := h.deps.Recommend(r.Context(), name, r.URL.Query().Get("priority"))
	if !out.OK() {
		writeOutcomeError(w, r, out)
		return out, false
	}
	return out, true
}

// HandleRecommendations handles GET /athletes/{name}/recommendations?priority=.
func (h *RecommendationHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	out, ok := h.recommend(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewRecommendationResponse(out))
}

// HandleSummary handles GET /athletes/{name}/summary as plain text.
func (h *RecommendationHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	out, ok := h.recommend(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.WriteSummary(&buf, out.Result); err != nil {
		writeInternal(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleRadar handles GET /athletes/{name}/radar.svg.
func (h *RecommendationHandler) HandleRadar(w http.ResponseWriter, r *http.Request) {
	out, ok := h.recommend(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.RenderRadar(&buf, out.Axes, out.Profiles); err != nil {
		writeInternal(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
