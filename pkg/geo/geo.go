// Package geo provides geographic utility functions for the travel planner.
//
// Distances use the Haversine formula on WGS-84 coordinates. There is no
// routing engine behind it: the great-circle distance stands in for the
// travelled distance of every mode.
package geo

import (
	"math"
	"strings"
	"unicode"

	"github.com/shiva/tripwise/internal/model"
)

// ─── Constants ──────────────────────────────────────────────

const (
	// EarthRadiusKm is the mean radius of Earth in kilometers.
	EarthRadiusKm = 6371.0
)

// ─── Distance ───────────────────────────────────────────────

// HaversineKm returns the great-circle distance between two points in kilometers.
//
//	d = 2R·asin(√(sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlon/2)))
//
// Complexity: O(1)
func HaversineKm(a, b model.Location) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	// Rounding can push h a hair above 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// ValidLocation reports whether loc is within WGS-84 bounds.
func ValidLocation(loc model.Location) bool {
	return loc.Lat >= -90 && loc.Lat <= 90 && loc.Lon >= -180 && loc.Lon <= 180
}

// ─── Place Names ────────────────────────────────────────────

// NormalizePlace canonicalizes a free-text place name for comparison:
// lower-cased, trimmed, inner whitespace collapsed and trailing
// punctuation removed. "  New   Delhi. " becomes "new delhi".
func NormalizePlace(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	out := strings.Join(fields, " ")
	return strings.TrimRightFunc(out, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

// ─── Helpers ────────────────────────────────────────────────

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
