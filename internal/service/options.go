package service

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/shiva/tripwise/internal/model"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	ErrUnknownSort = errors.New("unknown sort order")
	ErrUnknownMode = errors.New("unknown transport mode")
)

// RecommendedMode is the mode flagged as recommended in every result set.
// It is a fixed policy, not the output of a scoring function.
const RecommendedMode = model.ModeTrain

// ─── Result Set Builder ─────────────────────────────────────

// BuildOptions returns one RouteOption per supported mode, in canonical
// order, for the given distance. Exactly one option is recommended.
func BuildOptions(distanceKm float64) []model.RouteOption {
	opts := make([]model.RouteOption, 0, len(model.AllModes))
	for i, mode := range model.AllModes {
		m := ComputeMetrics(mode, distanceKm)
		opts = append(opts, model.RouteOption{
			ID:              strconv.Itoa(i + 1),
			Mode:            mode,
			DurationMinutes: m.DurationMinutes,
			DistanceKm:      distanceKm,
			Fare:            m.Fare,
			CO2Kg:           m.CO2Kg,
			Comfort:         m.Comfort,
			Recommended:     mode == RecommendedMode,
		})
	}
	return opts
}

// ─── Sort / Filter ──────────────────────────────────────────

// ParseSortBy parses a sort order. An empty string means SortByDuration.
func ParseSortBy(s string) (model.SortBy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return model.SortByDuration, nil
	}
	by := model.SortBy(s)
	if !by.Valid() {
		return "", ErrUnknownSort
	}
	return by, nil
}

// SortOptions returns a copy of opts ordered ascending by the chosen
// criterion. The sort is stable, so ties keep their input order; for a
// set produced by BuildOptions that is the canonical mode order. The input
// slice is not modified.
func SortOptions(opts []model.RouteOption, by model.SortBy) []model.RouteOption {
	out := slices.Clone(opts)
	slices.SortStableFunc(out, func(a, b model.RouteOption) int {
		switch by {
		case model.SortByFare:
			return cmp.Compare(a.Fare.Amount, b.Fare.Amount)
		case model.SortByEco:
			return cmp.Compare(a.CO2Kg, b.CO2Kg)
		default:
			return cmp.Compare(a.DurationMinutes, b.DurationMinutes)
		}
	})
	return out
}

// ParseModes parses a comma-separated mode list. An empty string selects
// nothing, which FilterModes treats as "all modes".
func ParseModes(s string) ([]model.Mode, error) {
	var modes []model.Mode
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, ok := model.ParseMode(part)
		if !ok {
			return nil, ErrUnknownMode
		}
		if !slices.Contains(modes, m) {
			modes = append(modes, m)
		}
	}
	return modes, nil
}

// FilterModes keeps only options whose mode is listed. An empty list keeps
// everything. Recommended flags are left as they are.
func FilterModes(opts []model.RouteOption, modes []model.Mode) []model.RouteOption {
	if len(modes) == 0 {
		return opts
	}
	out := make([]model.RouteOption, 0, len(modes))
	for _, o := range opts {
		if slices.Contains(modes, o.Mode) {
			out = append(out, o)
		}
	}
	return out
}
