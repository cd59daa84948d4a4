package config

// Config holds runtime configuration for the server.
type Config struct {
	Port      string
	Snapshots SnapshotsConfig
	Mongo     MongoConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:      envOrDefault(envPort, defaultPort),
		Snapshots: loadSnapshots(),
		Mongo:     loadMongo(),
		Metrics:   loadMetrics(),
		RateLimit: loadRateLimit(),
	}
}
