package database

import (
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/migrations"
	"github.com/noah-isme/eduflow-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: 5433, User: "edu", Password: "secret", Name: "eduflow", SSLMode: "require",
	})

	assert.Equal(t, "host=db port=5433 user=edu password=secret dbname=eduflow sslmode=require", dsn)
}

func TestMigrationsEmbedded(t *testing.T) {
	_, err := fs.Stat(migrations.FS, "00001_init.sql")
	require.NoError(t, err)
}

func TestMigrateRunsGooseOnTheConnection(t *testing.T) {
	rawDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer rawDB.Close()
	db := sqlx.NewDb(rawDB, "postgres")

	original := gooseUp
	defer func() { gooseUp = original }()

	var gotDB *sql.DB
	var gotDir string
	gooseUp = func(conn *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDB, gotDir = conn, dir
		return nil
	}

	require.NoError(t, Migrate(db))
	assert.Same(t, rawDB, gotDB)
	assert.Equal(t, ".", gotDir)
}

func TestMigrateWrapsFailure(t *testing.T) {
	rawDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer rawDB.Close()

	original := gooseUp
	defer func() { gooseUp = original }()
	gooseUp = func(*sql.DB, string, ...goose.OptionsFunc) error { return errors.New("dirty") }

	err = Migrate(sqlx.NewDb(rawDB, "postgres"))
	assert.EqualError(t, err, "apply migrations: dirty")
}
