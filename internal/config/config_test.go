package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("SALT_ROUNDS", 10)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		_, err := fromViper(newViper(map[string]any{"SESSION_SECRET": "s"}))
		assert.EqualError(t, err, "DB_DSN is not set")
	})

	t.Run("missing session secret", func(t *testing.T) {
		_, err := fromViper(newViper(map[string]any{"DB_DSN": "postgres://x"}))
		assert.EqualError(t, err, "SESSION_SECRET is not set")
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{
			"DB_DSN":         "postgres://x",
			"SESSION_SECRET": "s",
		}))
		require.NoError(t, err)
		assert.Equal(t, "9091", cfg.ServerPort)
		assert.Equal(t, "./uploads", cfg.UploadDir)
		assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
		assert.Equal(t, 10, cfg.SaltRounds)
		assert.Empty(t, cfg.AllowedUploadTypes)
		assert.Empty(t, cfg.AdminUsername)
	})

	t.Run("admin username follows admin password", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{
			"DB_DSN":         "postgres://x",
			"SESSION_SECRET": "s",
			"ADMIN_PASSWORD": "s3cret",
		}))
		require.NoError(t, err)
		assert.Equal(t, "admin", cfg.AdminUsername)

		cfg, err = fromViper(newViper(map[string]any{
			"DB_DSN":         "postgres://x",
			"SESSION_SECRET": "s",
			"ADMIN_PASSWORD": "s3cret",
			"ADMIN_USERNAME": "root",
		}))
		require.NoError(t, err)
		assert.Equal(t, "root", cfg.AdminUsername)
	})

	t.Run("server port alias", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{
			"DB_DSN":         "postgres://x",
			"SESSION_SECRET": "s",
			"SERVER_PORT":    "8081",
		}))
		require.NoError(t, err)
		assert.Equal(t, "8081", cfg.ServerPort)
	})

	t.Run("upload types and cost", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{
			"DB_DSN":               "postgres://x",
			"SESSION_SECRET":       "s",
			"ALLOWED_UPLOAD_TYPES": " image/PNG, ,application/pdf",
			"SALT_ROUNDS":          99,
		}))
		require.NoError(t, err)
		assert.Equal(t, []string{"image/png", "application/pdf"}, cfg.AllowedUploadTypes)
		assert.Equal(t, bcrypt.MaxCost, cfg.SaltRounds)
	})
}

func TestClampCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, clampCost(0))
	assert.Equal(t, bcrypt.MinCost, clampCost(1))
	assert.Equal(t, 12, clampCost(12))
}
