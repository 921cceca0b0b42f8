package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/tripwise/internal/model"
)

func modesOf(opts []model.RouteOption) []model.Mode {
	out := make([]model.Mode, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Mode)
	}
	return out
}

func recommendedCount(opts []model.RouteOption) int {
	n := 0
	for _, o := range opts {
		if o.Recommended {
			n++
		}
	}
	return n
}

func TestBuildOptions(t *testing.T) {
	opts := BuildOptions(650)

	require.Len(t, opts, len(model.AllModes))
	assert.Equal(t, model.AllModes, modesOf(opts))
	assert.Equal(t, 1, recommendedCount(opts))

	ids := make(map[string]bool)
	for _, o := range opts {
		assert.Equal(t, 650.0, o.DistanceKm)
		assert.False(t, ids[o.ID], "duplicate id %s", o.ID)
		ids[o.ID] = true
		if o.Mode == model.ModeTrain {
			assert.True(t, o.Recommended)
			assert.Equal(t, 709, o.DurationMinutes)
			assert.Equal(t, "11h 49 min", o.Duration())
			assert.Equal(t, "₹780", o.Fare.String())
			assert.Equal(t, "5.2 kg", o.CO2())
		}
	}
}

func TestSortOptions(t *testing.T) {
	opts := BuildOptions(650)

	tests := []struct {
		by   model.SortBy
		want []model.Mode
	}{
		{model.SortByDuration, []model.Mode{
			model.ModeFlight, model.ModeLuxuryTrain, model.ModeCar, model.ModeTrain,
			model.ModeBike, model.ModeBus, model.ModeAuto,
		}},
		{model.SortByFare, []model.Mode{
			model.ModeBus, model.ModeTrain, model.ModeBike, model.ModeAuto,
			model.ModeCar, model.ModeLuxuryTrain, model.ModeFlight,
		}},
		{model.SortByEco, []model.Mode{
			model.ModeLuxuryTrain, model.ModeTrain, model.ModeBus, model.ModeBike,
			model.ModeAuto, model.ModeCar, model.ModeFlight,
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			sorted := SortOptions(opts, tt.by)
			assert.Equal(t, tt.want, modesOf(sorted))
			assert.Equal(t, 1, recommendedCount(sorted))
		})
	}

	// Input untouched.
	assert.Equal(t, model.AllModes, modesOf(opts))
}

func TestSortOptions_TiesKeepCanonicalOrder(t *testing.T) {
	opts := BuildOptions(0)
	for _, by := range model.SortOrders {
		assert.Equal(t, model.AllModes, modesOf(SortOptions(opts, by)), by)
	}
}

func TestSortOptions_Idempotent(t *testing.T) {
	once := SortOptions(BuildOptions(420), model.SortByEco)
	assert.Equal(t, once, SortOptions(once, model.SortByEco))
}

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		in      string
		want    model.SortBy
		wantErr bool
	}{
		{"", model.SortByDuration, false},
		{"duration", model.SortByDuration, false},
		{" FARE ", model.SortByFare, false},
		{"eco", model.SortByEco, false},
		{"price", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortBy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownSort, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseModes(t *testing.T) {
	modes, err := ParseModes("train, Flight,,train")
	require.NoError(t, err)
	assert.Equal(t, []model.Mode{model.ModeTrain, model.ModeFlight}, modes)

	modes, err = ParseModes("")
	require.NoError(t, err)
	assert.Empty(t, modes)

	_, err = ParseModes("train,teleport")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestFilterModes(t *testing.T) {
	opts := BuildOptions(300)

	assert.Len(t, FilterModes(opts, nil), len(model.AllModes))

	kept := FilterModes(opts, []model.Mode{model.ModeFlight, model.ModeBus})
	assert.Equal(t, []model.Mode{model.ModeBus, model.ModeFlight}, modesOf(kept))
	assert.Equal(t, 0, recommendedCount(kept))
}
