// Package model contains domain models for the travel planner.
// Every value here is computed per query and never stored.
package model

import (
	"fmt"
	"math"
	"strings"
)

// ─── Enums ──────────────────────────────────────────────────

// Mode is a transport category.
type Mode string

const (
	ModeBus         Mode = "bus"
	ModeAuto        Mode = "auto"
	ModeBike        Mode = "bike"
	ModeTrain       Mode = "train"
	ModeCar         Mode = "car"
	ModeLuxuryTrain Mode = "luxury-train"
	ModeFlight      Mode = "flight"
)

// AllModes lists every supported mode in canonical display order.
// Sorting falls back to this order on ties.
var AllModes = []Mode{
	ModeBus,
	ModeAuto,
	ModeBike,
	ModeTrain,
	ModeCar,
	ModeLuxuryTrain,
	ModeFlight,
}

var modeLabels = map[Mode]string{
	ModeBus:         "Bus",
	ModeAuto:        "Auto Rickshaw",
	ModeBike:        "Bike",
	ModeTrain:       "Train",
	ModeCar:         "Car",
	ModeLuxuryTrain: "Luxury Train",
	ModeFlight:      "Flight",
}

// Label returns the human readable name of the mode.
func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

// Valid reports whether m is one of AllModes.
func (m Mode) Valid() bool {
	_, ok := modeLabels[m]
	return ok
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// DistanceSource records which resolution tier produced a distance.
type DistanceSource string

const (
	SourceSamePlace   DistanceSource = "same-place"
	SourceTable       DistanceSource = "table"
	SourceGreatCircle DistanceSource = "great-circle"
	SourceEstimate    DistanceSource = "estimate"
)

// SortBy selects the ordering of a result set.
type SortBy string

const (
	SortByDuration SortBy = "duration"
	SortByFare     SortBy = "fare"
	SortByEco      SortBy = "eco"
)

var sortLabels = map[SortBy]string{
	SortByDuration: "Fastest",
	SortByFare:     "Cheapest",
	SortByEco:      "Greenest",
}

// SortOrders lists the sort criteria in toggle order.
var SortOrders = []SortBy{SortByDuration, SortByFare, SortByEco}

// Label returns the toggle caption for the sort order.
func (s SortBy) Label() string {
	return sortLabels[s]
}

// Valid reports whether s is a known sort order.
func (s SortBy) Valid() bool {
	_, ok := sortLabels[s]
	return ok
}

// ─── Location ───────────────────────────────────────────────

// Location represents a WGS-84 geographic point (EPSG:4326).
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ─── Money ──────────────────────────────────────────────────

// CurrencyINR is the only currency fares are quoted in.
const CurrencyINR = "INR"

// Money is a whole-unit monetary amount tagged with its currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Rupees returns an INR amount.
func Rupees(amount int64) Money {
	return Money{Amount: amount, Currency: CurrencyINR}
}

func (m Money) String() string {
	if m.Currency == CurrencyINR {
		return fmt.Sprintf("₹%d", m.Amount)
	}
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

// ─── Route Options ──────────────────────────────────────────

// RouteOption is one estimated way of making a trip.
type RouteOption struct {
	ID              string  `json:"id"`
	Mode            Mode    `json:"mode"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
	Fare            Money   `json:"fare"`
	CO2Kg           float64 `json:"co2_kg"`
	Comfort         int     `json:"comfort"`
	Recommended     bool    `json:"recommended"`
}

// Duration formats DurationMinutes as "11h 49 min", "2h" or "45 min".
func (o RouteOption) Duration() string {
	return FormatDuration(o.DurationMinutes)
}

// Distance formats the distance, dropping the decimal for whole kilometers.
func (o RouteOption) Distance() string {
	return FormatDistance(o.DistanceKm)
}

// CO2 formats the emission estimate with one decimal place.
func (o RouteOption) CO2() string {
	return fmt.Sprintf("%.1f kg", o.CO2Kg)
}

// FormatDuration renders a minute count the way result cards show it.
func FormatDuration(mins int) string {
	h := mins / 60
	m := mins % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %d min", h, m)
	}
}

// FormatDistance renders kilometers, e.g. "650 km" or "12.4 km".
func FormatDistance(km float64) string {
	if km == math.Trunc(km) {
		return fmt.Sprintf("%.0f km", km)
	}
	return fmt.Sprintf("%.1f km", km)
}

// ─── Result Set ─────────────────────────────────────────────

// ResultSet is the answer to one search. All options share DistanceKm.
type ResultSet struct {
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	DistanceKm  float64        `json:"distance_km"`
	Source      DistanceSource `json:"distance_source"`
	SortBy      SortBy         `json:"sort_by"`
	Options     []RouteOption  `json:"options"`
}

// Estimated reports whether the distance is a guess rather than a lookup or
// a coordinate calculation.
func (r *ResultSet) Estimated() bool {
	return r.Source == SourceEstimate
}

// ─── Reference Data ─────────────────────────────────────────

// Place is a named point the resolver knows coordinates for.
type Place struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
	Aliases  []string `json:"aliases,omitempty"`
}

// CityDistance is a tabulated distance between two places.
type CityDistance struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
}

// Resolution is the outcome of distance resolution for one query.
type Resolution struct {
	DistanceKm float64        `json:"distance_km"`
	Source     DistanceSource `json:"source"`
}
