package service

import (
	"hash/fnv"
	"math"
	"strconv"

	"github.com/shiva/tripwise/internal/model"
	"github.com/shiva/tripwise/pkg/geo"
)

// ─── Constants ──────────────────────────────────────────────

const (
	// SamePlaceKm is returned when origin and destination are the same place.
	SamePlaceKm = 5.0

	// MinEstimateKm and MaxEstimateKm bound the pseudo-distance used for
	// places the catalog knows nothing about.
	MinEstimateKm = 50
	MaxEstimateKm = 800
)

// ─── Resolver ───────────────────────────────────────────────

// Resolver turns two free-text place names into a distance.
//
// Tiers, first match wins:
//
//  1. Same place (after normalization and aliasing) → SamePlaceKm.
//  2. Tabulated city pair                            → table value.
//  3. Both places have coordinates                   → haversine, 0.1 km.
//  4. Anything else                                  → pseudo-distance in
//     [MinEstimateKm, MaxEstimateKm] hashed from the names.
//
// Every tier is deterministic and symmetric in its arguments, and Resolve
// never fails. It does no I/O.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog returns the catalog backing the resolver.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve returns the distance between origin and destination and the tier
// that produced it.
func (r *Resolver) Resolve(origin, destination string) model.Resolution {
	o := r.catalog.Canonical(origin)
	d := r.catalog.Canonical(destination)

	if o == d {
		return model.Resolution{DistanceKm: SamePlaceKm, Source: model.SourceSamePlace}
	}

	if km, ok := r.catalog.Pair(o, d); ok {
		return model.Resolution{DistanceKm: km, Source: model.SourceTable}
	}

	from, okFrom := r.catalog.Coordinates(o)
	to, okTo := r.catalog.Coordinates(d)
	if okFrom && okTo {
		km := math.Round(geo.HaversineKm(from, to)*10) / 10
		return model.Resolution{DistanceKm: km, Source: model.SourceGreatCircle}
	}

	return model.Resolution{DistanceKm: pseudoDistanceKm(o, d), Source: model.SourceEstimate}
}

// Key returns a cache key that is equal for every pair of inputs Resolve
// treats as the same query, and only for those. The first name is length
// prefixed, so no separator inside a name can shift the split:
// "5:delhi|mumbai".
func (r *Resolver) Key(origin, destination string) string {
	o := r.catalog.Canonical(origin)
	d := r.catalog.Canonical(destination)
	if d < o {
		o, d = d, o
	}
	return strconv.Itoa(len(o)) + ":" + o + "|" + d
}

// pseudoDistanceKm hashes the pair (order-independent) into a whole number
// of kilometers within [MinEstimateKm, MaxEstimateKm].
func pseudoDistanceKm(a, b string) float64 {
	if b < a {
		a, b = b, a
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(a))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(b))

	span := uint32(MaxEstimateKm - MinEstimateKm + 1)
	return float64(MinEstimateKm + h.Sum32()%span)
}
