package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "fs", cfg.Snapshots.Backend)
	assert.Equal(t, "data/snapshots", cfg.Snapshots.Folder)
	assert.Equal(t, 30*time.Second, cfg.Snapshots.Interval)
	assert.Equal(t, 30, cfg.Snapshots.RetentionDays)
	assert.Empty(t, cfg.Snapshots.AdminToken)
	assert.Equal(t, "quizbowl", cfg.Mongo.Database)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "9090", cfg.Metrics.Port)
	assert.Equal(t, 50, cfg.RateLimit.RPS)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SNAPSHOT_BACKEND", "mongo")
	t.Setenv("SNAPSHOT_INTERVAL", "5s")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "5")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.Snapshots.Backend)
	assert.Equal(t, 5*time.Second, cfg.Snapshots.Interval)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.RPS)
}

func TestEnvHelpersRejectGarbage(t *testing.T) {
	t.Setenv("SNAPSHOT_INTERVAL", "soon")
	t.Setenv("SNAPSHOT_RETENTION_DAYS", "-3")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.Snapshots.Interval)
	assert.Equal(t, 30, cfg.Snapshots.RetentionDays)
	assert.True(t, cfg.Metrics.Enabled)
}
