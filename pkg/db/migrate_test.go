package db

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/tripwise/migrations"
)

func TestMigrate_AppliesUpFilesInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fsys := fstest.MapFS{
		"002_b.up.sql":   {Data: []byte("CREATE TABLE IF NOT EXISTS b ()")},
		"001_a.up.sql":   {Data: []byte("CREATE TABLE IF NOT EXISTS a ()")},
		"001_a.down.sql": {Data: []byte("DROP TABLE a")},
	}
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS a").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS b").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	n, err := Migrate(context.Background(), mock, fsys)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("permission denied")
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS places").WillReturnError(boom)

	n, err := Migrate(context.Background(), mock, migrations.FS)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, n)
}

func TestMigrate_EmbeddedSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS places").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	n, err := Migrate(context.Background(), mock, migrations.FS)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
