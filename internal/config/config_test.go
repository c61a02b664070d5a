package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoragePostgres, cfg.Storage.Driver)
	require.True(t, cfg.UsesPostgres())
	require.False(t, cfg.RedisEnabled())
	require.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	require.False(t, cfg.Access.StrictTaskMutations)
	require.False(t, cfg.Access.StrictProjectFilter)
	require.Equal(t, "./assets/migrations", cfg.Migrations.Path)
	require.Equal(t, "postgres://taskflow:pw@localhost:5432/taskflow?sslmode=disable", cfg.Database.URL)
	require.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("JWT_TTL", "3600")
	t.Setenv("ACCESS_STRICT_TASK_MUTATIONS", "true")
	t.Setenv("SYNC_INTERVAL_SECONDS", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorageMemory, cfg.Storage.Driver)
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, time.Hour, cfg.JWT.TTL)
	require.True(t, cfg.Access.StrictTaskMutations)
	require.Equal(t, 5*time.Second, cfg.Buffer.SyncInterval)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET is required")
	require.ErrorContains(t, err, `unknown STORAGE_DRIVER "mongo"`)
}
