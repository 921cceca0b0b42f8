package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shiva/tripwise/internal/model"
	"github.com/shiva/tripwise/internal/service"
)

// ─── Request/Response DTOs ──────────────────────────────────

// SearchRequest is the JSON body for POST /api/v1/routes.
type SearchRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	SortBy      string   `json:"sort_by"`
	Modes       []string `json:"modes"`
}

// RouteOptionResponse is a RouteOption with display strings attached.
type RouteOptionResponse struct {
	model.RouteOption
	Label    string `json:"label"`
	Duration string `json:"duration"`
	Distance string `json:"distance"`
	FareText string `json:"fare_text"`
	CO2      string `json:"co2"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Origin      string                `json:"origin"`
	Destination string                `json:"destination"`
	DistanceKm  float64               `json:"distance_km"`
	Source      model.DistanceSource  `json:"distance_source"`
	Estimated   bool                  `json:"estimated"`
	SortBy      model.SortBy          `json:"sort_by"`
	Count       int                   `json:"count"`
	Options     []RouteOptionResponse `json:"options"`
}

// ModeResponse describes one transport mode and its rates.
type ModeResponse struct {
	Mode        model.Mode    `json:"mode"`
	Label       string        `json:"label"`
	Rates       service.Rates `json:"rates"`
	Recommended bool          `json:"recommended"`
}

func newSearchResponse(rs *model.ResultSet) SearchResponse {
	opts := make([]RouteOptionResponse, 0, len(rs.Options))
	for _, o := range rs.Options {
		opts = append(opts, RouteOptionResponse{
			RouteOption: o,
			Label:       o.Mode.Label(),
			Duration:    o.Duration(),
			Distance:    o.Distance(),
			FareText:    o.Fare.String(),
			CO2:         o.CO2(),
		})
	}
	return SearchResponse{
		Origin:      rs.Origin,
		Destination: rs.Destination,
		DistanceKm:  rs.DistanceKm,
		Source:      rs.Source,
		Estimated:   rs.Estimated(),
		SortBy:      rs.SortBy,
		Count:       len(opts),
		Options:     opts,
	}
}

// ─── RouteHandler ───────────────────────────────────────────

// RouteHandler serves the route search API.
type RouteHandler struct {
	planner *service.Planner
}

// NewRouteHandler creates a new route handler.
func NewRouteHandler(planner *service.Planner) *RouteHandler {
	return &RouteHandler{planner: planner}
}

// SearchRoutes handles GET /api/v1/routes
//
// Query parameters: origin, destination (required), sort (duration | fare |
// eco, default duration), modes (comma-separated, default all).
//
//	GET /api/v1/routes?origin=Delhi&destination=Jaipur&sort=fare
func (h *RouteHandler) SearchRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy, err := service.ParseSortBy(q.Get("sort"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	modes, err := service.ParseModes(q.Get("modes"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.search(w, r, service.PlanRequest{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		SortBy:      sortBy,
		Modes:       modes,
	})
}

// SearchRoutesJSON handles POST /api/v1/routes
//
// Request body:
//
//	{
//	  "origin": "Mumbai", "destination": "Goa",
//	  "sort_by": "eco", "modes": ["train", "bus"]
//	}
func (h *RouteHandler) SearchRoutesJSON(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: "invalid JSON body",
		})
		return
	}

	sortBy, err := service.ParseSortBy(body.SortBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	modes, err := service.ParseModes(strings.Join(body.Modes, ","))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.search(w, r, service.PlanRequest{
		Origin:      body.Origin,
		Destination: body.Destination,
		SortBy:      sortBy,
		Modes:       modes,
	})
}

func (h *RouteHandler) search(w http.ResponseWriter, r *http.Request, req service.PlanRequest) {
	rs, err := h.planner.Plan(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSearchResponse(rs))
}

// ListModes handles GET /api/v1/modes
//
// Returns the rate table behind every estimate, in canonical mode order.
func (h *RouteHandler) ListModes(w http.ResponseWriter, r *http.Request) {
	modes := make([]ModeResponse, 0, len(model.AllModes))
	for _, m := range model.AllModes {
		modes = append(modes, ModeResponse{
			Mode:        m,
			Label:       m.Label(),
			Rates:       service.RatesFor(m),
			Recommended: m == service.RecommendedMode,
		})
	}
	writeJSON(w, http.StatusOK, modes)
}

// ListPlaces handles GET /api/v1/places
//
// Returns the names the resolver has coordinates for.
func (h *RouteHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"places": h.planner.Resolver().Catalog().Places(),
	})
}
