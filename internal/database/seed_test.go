package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestSeedStudents(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedStudents(db))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM students"))
	assert.Equal(t, len(sampleRoster), count)

	t.Run("second run does not duplicate", func(t *testing.T) {
		require.NoError(t, SeedStudents(db))
		require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM students"))
		assert.Equal(t, len(sampleRoster), count)
	})

	t.Run("non-empty table is never seeded", func(t *testing.T) {
		db := newTestDB(t)
		_, err := db.Exec("INSERT INTO students (nome, email) VALUES ('Só Um', 'so.um@email.com')")
		require.NoError(t, err)

		require.NoError(t, SeedStudents(db))
		require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM students"))
		assert.Equal(t, 1, count)
	})
}
