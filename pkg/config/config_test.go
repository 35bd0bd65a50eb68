package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 100, cfg.Manufacturing.LogsDefaultLimit)
	assert.Equal(t, 500, cfg.Manufacturing.LogsMaxLimit)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "utf-8", cfg.Catalog.Encoding)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOGS_DEFAULT_LIMIT", "20")
	t.Setenv("LOGS_MAX_LIMIT", "40")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("IDEMPOTENCY_TTL_MINUTES", "30")
	t.Setenv("CATALOG_ENCODING", "Windows-1252")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 20, cfg.Manufacturing.LogsDefaultLimit)
	assert.Equal(t, 40, cfg.Manufacturing.LogsMaxLimit)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 30*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "windows-1252", cfg.Catalog.Encoding)
}

func TestLoad_EncodingDeCatalogoInvalido(t *testing.T) {
	t.Setenv("CATALOG_ENCODING", "ebcdic")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_LimitesIncoherentes(t *testing.T) {
	t.Setenv("LOGS_DEFAULT_LIMIT", "200")
	t.Setenv("LOGS_MAX_LIMIT", "100")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaContraseña(t *testing.T) {
	c := config.DBConfig{User: "u", Password: "p@ss:w/rd", Host: "db", Port: 5432, DBName: "m", SSLMode: "disable"}
	dsn := c.ConnectionString()
	assert.Contains(t, dsn, "postgres://u:p%40ss%3Aw%2Frd@db:5432/m")
	assert.Contains(t, dsn, "sslmode=disable")

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
