package config

import "time"

const (
	envPort             = "PORT"
	envMetricsPort      = "METRICS_PORT"
	envMetricsOn        = "METRICS_ENABLED"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken       = "ADMIN_TOKEN"
	envSnapshotBackend  = "SNAPSHOT_BACKEND"
	envSnapshotFolder   = "SNAPSHOT_FOLDER"
	envSnapshotInterval = "SNAPSHOT_INTERVAL"
	envSnapshotDays     = "SNAPSHOT_RETENTION_DAYS"
	envMongoURI         = "MONGO_URI"
	envMongoDatabase    = "MONGO_DATABASE"
	envRateLimitRPS     = "RATE_LIMIT_RPS"
	envRateLimitBurst   = "RATE_LIMIT_BURST"

	defaultPort        = "4000"
	defaultMetricsPort = "9090"

	defaultSnapshotBackend = "fs"
	defaultSnapshotFolder  = "data/snapshots"
	// Autosave cadence; matches mutate at human scorekeeping speed, so a
	// short interval is cheap and keeps snapshots close to live state.
	defaultSnapshotInterval = 30 * time.Second
	defaultSnapshotDays     = 30

	defaultMongoDatabase = "quizbowl"

	defaultRateLimitRPS   = 50
	defaultRateLimitBurst = 100
)
