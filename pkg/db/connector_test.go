package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConnector(t *testing.T) {
	t.Helper()
	Reset()
	t.Cleanup(func() {
		Close()
	})
}

func TestConfigure_SQLiteCreatesDirectory(t *testing.T) {
	resetConnector(t)

	file := filepath.Join(t.TempDir(), "db", "database.db")
	err := Configure(Config{Engine: EngineSQLite, File: file})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Dir(file))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	conn, err := DB()
	require.NoError(t, err)
	assert.NoError(t, conn.Ping())
	assert.Equal(t, EngineSQLite, Engine())
}

func TestConfigure_Twice(t *testing.T) {
	resetConnector(t)

	require.NoError(t, Configure(Config{Engine: EngineSQLite, File: ":memory:"}))

	err := Configure(Config{Engine: EngineSQLite, File: ":memory:"})
	assert.ErrorIs(t, err, ErrAlreadyConfigured)
}

func TestConfigure_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown engine", Config{Engine: "mysql", File: "x.db"}, "unsupported database engine"},
		{"sqlite without file", Config{Engine: EngineSQLite}, "database file is required"},
		{"postgres without dsn", Config{Engine: EnginePostgres}, "DSN is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConnector(t)

			err := Configure(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			_, err = DB()
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestConfigure_UnwritableDirectory(t *testing.T) {
	resetConnector(t)

	// A regular file cannot act as the parent directory
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

	err := Configure(Config{Engine: EngineSQLite, File: filepath.Join(parent, "database.db")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create database directory")
}

func TestDB_NotConfigured(t *testing.T) {
	resetConnector(t)

	conn, err := DB()
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, Engine())
}

func TestConfigureWithDB(t *testing.T) {
	resetConnector(t)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	require.NoError(t, ConfigureWithDB(EnginePostgres, mockDB))
	assert.Equal(t, EnginePostgres, Engine())

	assert.ErrorIs(t, ConfigureWithDB(EnginePostgres, mockDB), ErrAlreadyConfigured)

	require.NoError(t, Close())
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = DB()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestConfigureWithDB_Invalid(t *testing.T) {
	resetConnector(t)

	assert.Error(t, ConfigureWithDB(EngineSQLite, nil))

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	err = ConfigureWithDB("oracle", mockDB)
	assert.True(t, errors.Is(err, ErrUnsupportedEngine))
}

func TestMigrate(t *testing.T) {
	resetConnector(t)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	require.NoError(t, ConfigureWithDB(EngineSQLite, mockDB))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS plugin_settings").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_Error(t *testing.T) {
	resetConnector(t)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	require.NoError(t, ConfigureWithDB(EngineSQLite, mockDB))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS plugin_settings").WillReturnError(errors.New("disk full"))

	err = Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestMigrate_NotConfigured(t *testing.T) {
	resetConnector(t)

	assert.ErrorIs(t, Migrate(context.Background()), ErrNotConfigured)
}

func TestMigrate_SQLite(t *testing.T) {
	resetConnector(t)

	require.NoError(t, Configure(Config{Engine: EngineSQLite, File: ":memory:"}))
	require.NoError(t, Migrate(context.Background()))
	// Idempotent
	require.NoError(t, Migrate(context.Background()))

	conn, err := DB()
	require.NoError(t, err)

	var name string
	err = conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='plugin_settings'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "plugin_settings", name)
}

func TestRebind(t *testing.T) {
	resetConnector(t)

	query := "SELECT data FROM plugin_settings WHERE owner_id = ? AND updated_at > ?"
	assert.Equal(t, query, Rebind(query))

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	require.NoError(t, ConfigureWithDB(EnginePostgres, mockDB))

	assert.Equal(t, "SELECT data FROM plugin_settings WHERE owner_id = $1 AND updated_at > $2", Rebind(query))
}
