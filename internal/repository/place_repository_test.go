package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/tripwise/internal/model"
)

func TestListPlaces(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"name", "lat", "lon", "aliases"}).
		AddRow("surat", 21.17, 72.83, []string{"suryapur"}).
		AddRow("vadodara", 22.31, 73.18, []string{})
	mock.ExpectQuery("SELECT name, lat, lon").WillReturnRows(rows)

	places, err := NewPlaceRepository(mock).ListPlaces(context.Background())
	require.NoError(t, err)

	require.Len(t, places, 2)
	assert.Equal(t, model.Place{
		Name:     "surat",
		Location: model.Location{Lat: 21.17, Lon: 72.83},
		Aliases:  []string{"suryapur"},
	}, places[0])
	assert.Equal(t, "vadodara", places[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPlaces_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("relation \"places\" does not exist")
	mock.ExpectQuery("SELECT name, lat, lon").WillReturnError(boom)

	_, err = NewPlaceRepository(mock).ListPlaces(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDistances(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"origin", "destination", "distance_km"}).
		AddRow("mumbai", "surat", 284.0).
		AddRow("surat", "vadodara", 150.0)
	mock.ExpectQuery("SELECT origin, destination, distance_km").WillReturnRows(rows)

	distances, err := NewPlaceRepository(mock).ListDistances(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.CityDistance{
		{From: "mumbai", To: "surat", DistanceKm: 284},
		{From: "surat", To: "vadodara", DistanceKm: 150},
	}, distances)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDistances_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT origin, destination, distance_km").WillReturnError(boom)

	_, err = NewPlaceRepository(mock).ListDistances(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
