package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shiva/tripwise/internal/model"
	"github.com/shiva/tripwise/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// ─── View Models ────────────────────────────────────────────

type sortToggle struct {
	Label  string
	URL    string
	Active bool
}

type routeCard struct {
	model.RouteOption
	Label    string
	Duration string
	Distance string
	FareText string
	CO2      string
	Dots     []bool // five comfort dots, filled up to Comfort
}

type pageData struct {
	Origin      string
	Destination string
	Places      []string
	Searched    bool
	Result      *model.ResultSet
	Cards       []routeCard
	Sorts       []sortToggle
	SortLabel   string
	Error       string
}

// ─── PageHandler ────────────────────────────────────────────

// PageHandler serves the single-page planner UI.
type PageHandler struct {
	planner *service.Planner
	delay   time.Duration
}

// NewPageHandler creates the page handler. delay is an artificial pause
// before results are shown; zero disables it.
func NewPageHandler(planner *service.Planner, delay time.Duration) *PageHandler {
	return &PageHandler{planner: planner, delay: delay}
}

// Index handles GET /
//
// With both origin and destination in the query it renders the result list,
// otherwise just the search form.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		Places:      h.planner.Resolver().Catalog().Places(),
	}

	sortBy, err := service.ParseSortBy(q.Get("sort"))
	if err != nil {
		sortBy = model.SortByDuration
	}

	if data.Origin != "" || data.Destination != "" {
		rs, err := h.planner.Plan(r.Context(), service.PlanRequest{
			Origin:      data.Origin,
			Destination: data.Destination,
			SortBy:      sortBy,
		})
		switch {
		case errors.Is(err, service.ErrEmptyPlace):
			// The form's required fields normally stop this; a hand-edited
			// URL just gets the form back, prefilled.
		case err != nil:
			log.Printf("[page] search error: %v", err)
			data.Error = "Something went wrong. Please try again."
		default:
			if !h.pause(r.Context()) {
				return
			}
			data.Searched = true
			data.Result = rs
			data.Cards = newRouteCards(rs.Options)
			data.Sorts = newSortToggles(rs, sortBy)
			data.SortLabel = string(sortBy)
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.Printf("[page] render: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// pause waits for the configured delay. Returns false if the client went
// away first.
func (h *PageHandler) pause(ctx context.Context) bool {
	if h.delay <= 0 {
		return true
	}
	t := time.NewTimer(h.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func newRouteCards(opts []model.RouteOption) []routeCard {
	cards := make([]routeCard, 0, len(opts))
	for _, o := range opts {
		dots := make([]bool, 5)
		for i := range dots {
			dots[i] = i < o.Comfort
		}
		cards = append(cards, routeCard{
			RouteOption: o,
			Label:       o.Mode.Label(),
			Duration:    o.Duration(),
			Distance:    o.Distance(),
			FareText:    o.Fare.String(),
			CO2:         o.CO2(),
			Dots:        dots,
		})
	}
	return cards
}

func newSortToggles(rs *model.ResultSet, active model.SortBy) []sortToggle {
	toggles := make([]sortToggle, 0, len(model.SortOrders))
	for _, by := range model.SortOrders {
		v := url.Values{}
		v.Set("origin", rs.Origin)
		v.Set("destination", rs.Destination)
		v.Set("sort", string(by))
		toggles = append(toggles, sortToggle{
			Label:  by.Label(),
			URL:    "/?" + v.Encode(),
			Active: by == active,
		})
	}
	return toggles
}
