package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // нет .env файла

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, "AP_13_dist_data.csv", cfg.CSVPath)
	assert.Equal(t, 22.0, cfg.MapCenterLat)
	assert.Equal(t, 79.0, cfg.MapCenterLng)
	assert.Equal(t, 5, cfg.MapDefaultZoom)
	assert.Equal(t, 12, cfg.MapMaxFitZoom)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("API_KEYS", " key-1 , key-2")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("MAP_MAX_FIT_ZOOM", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, []string{"key-1", "key-2"}, cfg.APIKeys)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.MapMaxFitZoom)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_UnknownSource(t *testing.T) {
	cfg := &Config{DataSource: "mongo", MapWidthPx: 10, MapHeightPx: 10}
	assert.ErrorContains(t, cfg.Validate(), "unknown DATA_SOURCE")
}
