package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesWithoutConfigFile(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("DATABASE_PASSWORD", "s3cret")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("STORAGE_S3_BUCKET", "decks")
	t.Setenv("STORAGE_S3_ACCESS_KEY", "AKIA123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "decks", cfg.Storage.S3.Bucket)
	assert.Equal(t, "AKIA123", cfg.Storage.S3.AccessKey)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 4, cfg.Dispatcher.Workers)
	assert.Equal(t, 128, cfg.Dispatcher.QueueSize)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Empty(t, cfg.Gemini.APIKey)
}
