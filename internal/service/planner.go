// Package service contains the core business logic of the travel planner:
// distance resolution, per-mode metrics and result set assembly.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shiva/tripwise/internal/model"
	"github.com/shiva/tripwise/pkg/metrics"
	"github.com/shiva/tripwise/pkg/tracing"
)

// ─── Errors ─────────────────────────────────────────────────

// ErrEmptyPlace is returned when origin or destination is blank.
var ErrEmptyPlace = errors.New("origin and destination are required")

// ─── Distance Cache ─────────────────────────────────────────

// DistanceCache stores resolutions keyed by Resolver.Key. Implementations
// must be safe for concurrent use. A miss is (zero, false, nil).
type DistanceCache interface {
	Get(ctx context.Context, key string) (model.Resolution, bool, error)
	Set(ctx context.Context, key string, res model.Resolution) error
	Name() string
}

// ─── Planner ────────────────────────────────────────────────

// PlanRequest is one search.
type PlanRequest struct {
	Origin      string
	Destination string
	SortBy      model.SortBy
	Modes       []model.Mode // empty = all modes
}

// Planner answers searches: resolve distance → compute metrics per mode →
// sort. Every result is a pure function of the request and the catalog; the
// cache only saves recomputation.
type Planner struct {
	resolver *Resolver
	cache    DistanceCache
}

// NewPlanner creates a planner. cache may be nil.
func NewPlanner(resolver *Resolver, cache DistanceCache) *Planner {
	return &Planner{resolver: resolver, cache: cache}
}

// Resolver returns the resolver the planner uses.
func (p *Planner) Resolver() *Resolver {
	return p.resolver
}

// Plan builds the result set for a search.
//
// Steps:
//  1. Validate that both places are non-blank after normalization.
//  2. Resolve the distance, going through the cache when one is configured.
//  3. Build one option per mode, then filter and sort for display.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*model.ResultSet, error) {
	start := time.Now()

	origin := strings.TrimSpace(req.Origin)
	destination := strings.TrimSpace(req.Destination)
	// A name made only of punctuation normalizes to nothing.
	catalog := p.resolver.Catalog()
	if catalog.Canonical(origin) == "" || catalog.Canonical(destination) == "" {
		return nil, ErrEmptyPlace
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = model.SortByDuration
	}
	if !sortBy.Valid() {
		return nil, ErrUnknownSort
	}

	ctx, span := tracing.StartSpan(ctx, "planner.Plan")
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrOrigin, origin),
		attribute.String(tracing.AttrDestination, destination),
		attribute.String(tracing.AttrSortBy, string(sortBy)),
	)

	// ── Step 1: Distance ────────────────────────────────
	res := p.resolve(ctx, origin, destination)
	span.SetAttributes(
		attribute.Float64(tracing.AttrDistanceKm, res.DistanceKm),
		attribute.String(tracing.AttrDistanceSource, string(res.Source)),
	)

	// ── Step 2: Options ─────────────────────────────────
	opts := BuildOptions(res.DistanceKm)
	opts = FilterModes(opts, req.Modes)
	opts = SortOptions(opts, sortBy)

	elapsed := time.Since(start)
	metrics.RecordSearch(string(res.Source), elapsed)
	log.Printf("[planner] %q → %q: %.1f km (%s), %d options sorted by %s in %s",
		origin, destination, res.DistanceKm, res.Source, len(opts), sortBy,
		elapsed.Round(time.Microsecond))

	return &model.ResultSet{
		Origin:      origin,
		Destination: destination,
		DistanceKm:  res.DistanceKm,
		Source:      res.Source,
		SortBy:      sortBy,
		Options:     opts,
	}, nil
}

// resolve looks the pair up in the cache and falls back to the resolver.
// Cache failures are logged and never surface to the caller.
func (p *Planner) resolve(ctx context.Context, origin, destination string) model.Resolution {
	if p.cache == nil {
		return p.resolver.Resolve(origin, destination)
	}

	backend := p.cache.Name()
	key := p.resolver.Key(origin, destination)

	cached, ok, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCacheError(backend, "get")
		log.Printf("[planner] WARNING: %s cache get failed: %v; resolving directly", backend, err)
	case ok:
		metrics.RecordCacheHit(backend)
		tracing.SetAttributes(ctx, attribute.Bool(tracing.AttrCacheHit, true))
		return cached
	default:
		metrics.RecordCacheMiss(backend)
	}

	res := p.resolver.Resolve(origin, destination)
	tracing.SetAttributes(ctx, attribute.Bool(tracing.AttrCacheHit, false))

	if err := p.cache.Set(ctx, key, res); err != nil {
		metrics.RecordCacheError(backend, "set")
		log.Printf("[planner] WARNING: %s cache set failed: %v", backend, err)
	}
	return res
}
