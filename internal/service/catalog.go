package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sort"

	"github.com/shiva/tripwise/internal/model"
	"github.com/shiva/tripwise/pkg/geo"
)

// ─── Built-in Reference Data ────────────────────────────────

var builtinPlaces = []model.Place{
	{Name: "delhi", Location: model.Location{Lat: 28.6139, Lon: 77.2090}, Aliases: []string{"new delhi", "ndls"}},
	{Name: "mumbai", Location: model.Location{Lat: 19.0760, Lon: 72.8777}, Aliases: []string{"bombay"}},
	{Name: "bangalore", Location: model.Location{Lat: 12.9716, Lon: 77.5946}, Aliases: []string{"bengaluru"}},
	{Name: "chennai", Location: model.Location{Lat: 13.0827, Lon: 80.2707}, Aliases: []string{"madras"}},
	{Name: "kolkata", Location: model.Location{Lat: 22.5726, Lon: 88.3639}, Aliases: []string{"calcutta"}},
	{Name: "hyderabad", Location: model.Location{Lat: 17.3850, Lon: 78.4867}},
	{Name: "pune", Location: model.Location{Lat: 18.5204, Lon: 73.8567}, Aliases: []string{"poona"}},
	{Name: "ahmedabad", Location: model.Location{Lat: 23.0225, Lon: 72.5714}},
	{Name: "jaipur", Location: model.Location{Lat: 26.9124, Lon: 75.7873}},
	{Name: "agra", Location: model.Location{Lat: 27.1767, Lon: 78.0081}},
	{Name: "goa", Location: model.Location{Lat: 15.4909, Lon: 73.8278}, Aliases: []string{"panaji", "panjim"}},
	{Name: "lucknow", Location: model.Location{Lat: 26.8467, Lon: 80.9462}},
	{Name: "varanasi", Location: model.Location{Lat: 25.3176, Lon: 82.9739}, Aliases: []string{"banaras", "benares"}},
	{Name: "kochi", Location: model.Location{Lat: 9.9312, Lon: 76.2673}, Aliases: []string{"cochin"}},
	{Name: "chandigarh", Location: model.Location{Lat: 30.7333, Lon: 76.7794}},
	{Name: "mysore", Location: model.Location{Lat: 12.2958, Lon: 76.6394}, Aliases: []string{"mysuru"}},
	{Name: "udaipur", Location: model.Location{Lat: 24.5854, Lon: 73.7125}},
	{Name: "amritsar", Location: model.Location{Lat: 31.6340, Lon: 74.8723}},
	{Name: "bhopal", Location: model.Location{Lat: 23.2599, Lon: 77.4126}},
	{Name: "shimla", Location: model.Location{Lat: 31.1048, Lon: 77.1734}},
}

// Road distances for common corridors. Pairs are order-independent.
var builtinDistances = []model.CityDistance{
	{From: "delhi", To: "mumbai", DistanceKm: 1415},
	{From: "delhi", To: "jaipur", DistanceKm: 281},
	{From: "delhi", To: "agra", DistanceKm: 233},
	{From: "delhi", To: "chandigarh", DistanceKm: 244},
	{From: "delhi", To: "lucknow", DistanceKm: 555},
	{From: "delhi", To: "kolkata", DistanceKm: 1530},
	{From: "delhi", To: "shimla", DistanceKm: 343},
	{From: "delhi", To: "amritsar", DistanceKm: 450},
	{From: "mumbai", To: "pune", DistanceKm: 149},
	{From: "mumbai", To: "goa", DistanceKm: 590},
	{From: "mumbai", To: "ahmedabad", DistanceKm: 524},
	{From: "mumbai", To: "bangalore", DistanceKm: 984},
	{From: "bangalore", To: "chennai", DistanceKm: 346},
	{From: "bangalore", To: "mysore", DistanceKm: 145},
	{From: "bangalore", To: "hyderabad", DistanceKm: 570},
	{From: "bangalore", To: "kochi", DistanceKm: 550},
	{From: "chennai", To: "hyderabad", DistanceKm: 627},
	{From: "kolkata", To: "varanasi", DistanceKm: 680},
	{From: "jaipur", To: "udaipur", DistanceKm: 395},
	{From: "agra", To: "jaipur", DistanceKm: 240},
}

// ─── Catalog ────────────────────────────────────────────────

type pairKey struct{ a, b string }

func newPairKey(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// Catalog holds the static lookup tables used by the Resolver: known
// coordinates, aliases and tabulated city-pair distances. Names are stored
// normalized.
//
// A Catalog is filled once at startup (built-in data plus any rows merged
// from the database) and is read-only afterwards, so lookups need no locking.
type Catalog struct {
	coords  map[string]model.Location
	aliases map[string]string
	pairs   map[pairKey]float64
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		coords:  make(map[string]model.Location),
		aliases: make(map[string]string),
		pairs:   make(map[pairKey]float64),
	}
}

// DefaultCatalog returns a catalog holding the built-in Indian city data.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Merge(builtinPlaces, builtinDistances)
	return c
}

// Merge adds places and distances, overwriting existing entries with the
// same name or pair. Entries with an empty name, out-of-range coordinates or
// a negative distance are skipped. Returns the number of entries applied.
func (c *Catalog) Merge(places []model.Place, distances []model.CityDistance) int {
	applied := 0
	for _, p := range places {
		name := geo.NormalizePlace(p.Name)
		if name == "" || !geo.ValidLocation(p.Location) {
			continue
		}
		c.coords[name] = p.Location
		for _, a := range p.Aliases {
			if alias := geo.NormalizePlace(a); alias != "" && alias != name {
				c.aliases[alias] = name
			}
		}
		applied++
	}
	for _, d := range distances {
		from, to := c.Canonical(d.From), c.Canonical(d.To)
		if from == "" || to == "" || from == to || d.DistanceKm < 0 {
			continue
		}
		c.pairs[newPairKey(from, to)] = d.DistanceKm
		applied++
	}
	return applied
}

// Canonical normalizes a place name and resolves aliases.
func (c *Catalog) Canonical(name string) string {
	n := geo.NormalizePlace(name)
	if target, ok := c.aliases[n]; ok {
		return target
	}
	return n
}

// Pair returns the tabulated distance between two canonical names.
func (c *Catalog) Pair(a, b string) (float64, bool) {
	km, ok := c.pairs[newPairKey(a, b)]
	return km, ok
}

// Coordinates returns the location of a canonical name.
func (c *Catalog) Coordinates(name string) (model.Location, bool) {
	loc, ok := c.coords[name]
	return loc, ok
}

// Places returns every name with known coordinates, sorted.
func (c *Catalog) Places() []string {
	out := make([]string, 0, len(c.coords))
	for name := range c.coords {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Size returns the number of known places and tabulated pairs.
func (c *Catalog) Size() (places, pairs int) {
	return len(c.coords), len(c.pairs)
}

// Fingerprint identifies the catalog contents: equal places, aliases and
// pairs give an equal fingerprint regardless of merge order. Shared caches
// namespace their keys with it.
func (c *Catalog) Fingerprint() string {
	lines := make([]string, 0, len(c.coords)+len(c.aliases)+len(c.pairs))
	for name, loc := range c.coords {
		lines = append(lines, fmt.Sprintf("p\x00%s\x00%g\x00%g", name, loc.Lat, loc.Lon))
	}
	for alias, name := range c.aliases {
		lines = append(lines, "a\x00"+alias+"\x00"+name)
	}
	for k, km := range c.pairs {
		lines = append(lines, fmt.Sprintf("d\x00%s\x00%s\x00%g", k.a, k.b, km))
	}
	sort.Strings(lines)

	h := fnv.New64a()
	for _, line := range lines {
		_, _ = h.Write([]byte(line))
		_, _ = h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// ─── Loading ────────────────────────────────────────────────

// PlaceSource supplies extra reference data, typically the Postgres
// PlaceRepository.
type PlaceSource interface {
	ListPlaces(ctx context.Context) ([]model.Place, error)
	ListDistances(ctx context.Context) ([]model.CityDistance, error)
}

// LoadCatalog returns the built-in catalog with everything from src merged
// over it. Rows that fail validation are skipped, not fatal.
func LoadCatalog(ctx context.Context, src PlaceSource) (*Catalog, error) {
	places, err := src.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	distances, err := src.ListDistances(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	c := DefaultCatalog()
	applied := c.Merge(places, distances)
	if skipped := len(places) + len(distances) - applied; skipped > 0 {
		log.Printf("[catalog] WARNING: skipped %d invalid rows", skipped)
	}
	nPlaces, nPairs := c.Size()
	log.Printf("[catalog] merged %d rows: %d places, %d city pairs", applied, nPlaces, nPairs)
	return c, nil
}
