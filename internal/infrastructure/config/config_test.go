package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shopdesk-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "shopdesk:changes", cfg.Redis.ChannelPrefix)
	assert.Equal(t, 1500*time.Millisecond, cfg.Sync.SuppressionWindow)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOPDESK_DATABASE_DRIVER", "postgres")
	t.Setenv("SHOPDESK_DATABASE_PASSWORD", "secret")
	t.Setenv("SHOPDESK_SYNC_SUPPRESSION_WINDOW", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 2*time.Second, cfg.Sync.SuppressionWindow)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("SHOPDESK_DATABASE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestLoad_RejectsOversizedSuppressionWindow(t *testing.T) {
	t.Setenv("SHOPDESK_SYNC_SUPPRESSION_WINDOW", "30s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suppression_window")
}

func TestValidate_ProductionPostgres(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Database.Driver = "postgres"

	// Missing password
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")

	// Password set but TLS still disabled
	cfg.Database.Password = "secret"
	err = cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sslmode")

	cfg.Database.SSLMode = "require"
	assert.NoError(t, cfg.validate())
}

func TestDatabaseConfig_DSNEscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "shopdesk",
		Password: "p@ss w:rd/",
		DBName:   "shopdesk",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss w:rd/")
}
