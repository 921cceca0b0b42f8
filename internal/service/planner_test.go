package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/tripwise/internal/model"
)

// fakeCache is an in-memory DistanceCache that can be told to fail.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]model.Resolution
	gets    int
	sets    int
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]model.Resolution)}
}

func (c *fakeCache) Get(_ context.Context, key string) (model.Resolution, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return model.Resolution{}, false, c.getErr
	}
	res, ok := c.entries[key]
	return res, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, res model.Resolution) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = res
	return nil
}

func (c *fakeCache) Name() string { return "fake" }

func newTestPlanner(cache DistanceCache) *Planner {
	return NewPlanner(NewResolver(DefaultCatalog()), cache)
}

func TestPlan(t *testing.T) {
	p := newTestPlanner(nil)

	rs, err := p.Plan(context.Background(), PlanRequest{
		Origin:      "  Delhi ",
		Destination: "Mumbai",
		SortBy:      model.SortByFare,
	})
	require.NoError(t, err)

	assert.Equal(t, "Delhi", rs.Origin)
	assert.Equal(t, "Mumbai", rs.Destination)
	assert.Equal(t, 1415.0, rs.DistanceKm)
	assert.Equal(t, model.SourceTable, rs.Source)
	assert.False(t, rs.Estimated())
	assert.Equal(t, model.SortByFare, rs.SortBy)
	require.Len(t, rs.Options, len(model.AllModes))
	assert.Equal(t, model.ModeBus, rs.Options[0].Mode)
	assert.Equal(t, 1, recommendedCount(rs.Options))
	for _, o := range rs.Options {
		assert.Equal(t, rs.DistanceKm, o.DistanceKm)
	}
}

func TestPlan_DefaultsToDuration(t *testing.T) {
	rs, err := newTestPlanner(nil).Plan(context.Background(), PlanRequest{Origin: "Pune", Destination: "Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, model.SortByDuration, rs.SortBy)
	assert.Equal(t, model.ModeFlight, rs.Options[0].Mode)
}

func TestPlan_UnknownPlacesAreEstimated(t *testing.T) {
	rs, err := newTestPlanner(nil).Plan(context.Background(), PlanRequest{Origin: "Atlantis", Destination: "Eldorado"})
	require.NoError(t, err)
	assert.True(t, rs.Estimated())
	assert.GreaterOrEqual(t, rs.DistanceKm, float64(MinEstimateKm))
	assert.LessOrEqual(t, rs.DistanceKm, float64(MaxEstimateKm))
}

func TestPlan_Errors(t *testing.T) {
	p := newTestPlanner(nil)
	ctx := context.Background()

	_, err := p.Plan(ctx, PlanRequest{Origin: "", Destination: "Goa"})
	assert.ErrorIs(t, err, ErrEmptyPlace)

	_, err = p.Plan(ctx, PlanRequest{Origin: "Goa", Destination: "   "})
	assert.ErrorIs(t, err, ErrEmptyPlace)

	_, err = p.Plan(ctx, PlanRequest{Origin: ".", Destination: ","})
	assert.ErrorIs(t, err, ErrEmptyPlace)

	_, err = p.Plan(ctx, PlanRequest{Origin: "Goa", Destination: " ?! "})
	assert.ErrorIs(t, err, ErrEmptyPlace)

	_, err = p.Plan(ctx, PlanRequest{Origin: "Goa", Destination: "Pune", SortBy: "comfort"})
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestPlan_FiltersModes(t *testing.T) {
	rs, err := newTestPlanner(nil).Plan(context.Background(), PlanRequest{
		Origin:      "Delhi",
		Destination: "Jaipur",
		SortBy:      model.SortByEco,
		Modes:       []model.Mode{model.ModeCar, model.ModeTrain},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Mode{model.ModeTrain, model.ModeCar}, modesOf(rs.Options))
}

func TestPlan_UsesCache(t *testing.T) {
	cache := newFakeCache()
	p := newTestPlanner(cache)
	ctx := context.Background()

	first, err := p.Plan(ctx, PlanRequest{Origin: "Delhi", Destination: "Bangalore"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.entries, "9:bangalore|delhi")

	second, err := p.Plan(ctx, PlanRequest{Origin: "Bengaluru", Destination: "New Delhi"})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets, "second search must be a hit")
	assert.Equal(t, first.DistanceKm, second.DistanceKm)
	assert.Equal(t, first.Source, second.Source)
}

func TestPlan_CacheNeverMixesQueries(t *testing.T) {
	p := newTestPlanner(newFakeCache())
	ctx := context.Background()

	_, err := p.Plan(ctx, PlanRequest{Origin: "x|y", Destination: "z"})
	require.NoError(t, err)

	rs, err := p.Plan(ctx, PlanRequest{Origin: "x", Destination: "y|z"})
	require.NoError(t, err)
	assert.Equal(t, p.Resolver().Resolve("x", "y|z").DistanceKm, rs.DistanceKm)
}

func TestPlan_CacheFailuresAreNotFatal(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	rs, err := newTestPlanner(cache).Plan(context.Background(), PlanRequest{Origin: "Delhi", Destination: "Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, 1415.0, rs.DistanceKm)
	assert.Equal(t, 1, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestPlan_Concurrent(t *testing.T) {
	p := newTestPlanner(newFakeCache())
	want, err := p.Plan(context.Background(), PlanRequest{Origin: "Goa", Destination: "Kochi"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Plan(context.Background(), PlanRequest{Origin: "Kochi", Destination: "Goa"})
			if assert.NoError(t, err) {
				assert.Equal(t, want.DistanceKm, got.DistanceKm)
			}
		}()
	}
	wg.Wait()
}
