package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/tripwise/internal/model"
)

func TestMemoryDistanceCache(t *testing.T) {
	c := NewMemoryDistanceCache(8, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "delhi|mumbai")
	require.NoError(t, err)
	assert.False(t, ok)

	want := model.Resolution{DistanceKm: 1415, Source: model.SourceTable}
	require.NoError(t, c.Set(ctx, "delhi|mumbai", want))

	got, ok, err := c.Get(ctx, "delhi|mumbai")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, "memory", c.Name())
}

func TestMemoryDistanceCache_EvictsBeyondSize(t *testing.T) {
	c := NewMemoryDistanceCache(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, strconv.Itoa(i), model.Resolution{DistanceKm: float64(i)}))
	}

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "0")
	assert.False(t, ok, "least recently used entry should be gone")
}

func TestMemoryDistanceCache_Expires(t *testing.T) {
	c := NewMemoryDistanceCache(8, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "goa|pune", model.Resolution{DistanceKm: 370}))
	time.Sleep(30 * time.Millisecond)

	_, ok, _ := c.Get(ctx, "goa|pune")
	assert.False(t, ok)
}
