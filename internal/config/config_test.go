package config

import (
	"testing"
	"time"

	"donoryuk/internal/adapters/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("STORAGE_TYPE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, storage.TypeLocal, cfg.Storage.Type)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 15*time.Minute, cfg.ProofURLExpiry)
	assert.Equal(t, "0 30 8 * * *", cfg.Cron.CooldownDigest)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("STORAGE_S3_BUCKET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_S3_BUCKET", "donor-cards")
	t.Setenv("STORAGE_S3_REGION", "ap-southeast-3")
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Storage.S3)
	assert.Equal(t, "donor-cards", cfg.Storage.S3.Bucket)
}

func TestLoad_ProdNeedsSecrets(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("PROD_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PROD_JWT_SECRET", "s1")
	t.Setenv("PROD_JWT_REFRESH_SECRET", "s2")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}
