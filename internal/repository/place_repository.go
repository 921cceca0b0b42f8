// Package repository reads the planner's reference data from PostgreSQL.
//
// Nothing a user searches for is written anywhere. The tables are read once
// at startup and merged into the in-memory catalog.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shiva/tripwise/internal/model"
)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PlaceRepository reads place coordinates and tabulated city distances.
type PlaceRepository struct {
	db Querier
}

// NewPlaceRepository creates a new place repository.
func NewPlaceRepository(db Querier) *PlaceRepository {
	return &PlaceRepository{db: db}
}

const (
	listPlacesQuery = `
		SELECT name, lat, lon, COALESCE(aliases, '{}')
		FROM places
		ORDER BY name`

	listDistancesQuery = `
		SELECT origin, destination, distance_km
		FROM city_distances
		ORDER BY origin, destination`
)

// ListPlaces returns every row of the places table.
func (r *PlaceRepository) ListPlaces(ctx context.Context) ([]model.Place, error) {
	rows, err := r.db.Query(ctx, listPlacesQuery)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var places []model.Place
	for rows.Next() {
		var p model.Place
		if err := rows.Scan(&p.Name, &p.Location.Lat, &p.Location.Lon, &p.Aliases); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return places, nil
}

// ListDistances returns every row of the city_distances table.
func (r *PlaceRepository) ListDistances(ctx context.Context) ([]model.CityDistance, error) {
	rows, err := r.db.Query(ctx, listDistancesQuery)
	if err != nil {
		return nil, fmt.Errorf("query city distances: %w", err)
	}
	defer rows.Close()

	var distances []model.CityDistance
	for rows.Next() {
		var d model.CityDistance
		if err := rows.Scan(&d.From, &d.To, &d.DistanceKm); err != nil {
			return nil, fmt.Errorf("scan city distance: %w", err)
		}
		distances = append(distances, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate city distances: %w", err)
	}
	return distances, nil
}
