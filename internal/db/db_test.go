package db

import (
	"context"
	"testing"

	"mcpserver/internal/config"
	"mcpserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() *config.Config {
	cfg := config.New()
	cfg.DBDriver = config.DriverSQLite
	cfg.DatabaseURL = ":memory:"
	return cfg
}

func TestOpenMigrateSQLite(t *testing.T) {
	gdb, err := Open(sqliteConfig())
	require.NoError(t, err)
	defer Close(gdb)

	require.NoError(t, Migrate(gdb))
	// idempotent
	require.NoError(t, Migrate(gdb))

	assert.True(t, gdb.Migrator().HasTable("nodes"))
	assert.True(t, gdb.Migrator().HasColumn(&models.Node{}, "name"))
	assert.True(t, gdb.Migrator().HasColumn(&models.Node{}, "org"))
	assert.NoError(t, Ping(context.Background(), gdb))
}

func TestNodeColumnsNotNull(t *testing.T) {
	gdb, err := Open(sqliteConfig())
	require.NoError(t, err)
	defer Close(gdb)
	require.NoError(t, Migrate(gdb))

	err = gdb.Exec("INSERT INTO nodes (name, org) VALUES (?, NULL)", "Alice").Error
	assert.Error(t, err)
	err = gdb.Exec("INSERT INTO nodes (name, org) VALUES (NULL, ?)", "Acme").Error
	assert.Error(t, err)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := sqliteConfig()
	cfg.DBDriver = "oracle"
	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestPingAfterClose(t *testing.T) {
	gdb, err := Open(sqliteConfig())
	require.NoError(t, err)
	require.NoError(t, Close(gdb))
	assert.Error(t, Ping(context.Background(), gdb))
}
