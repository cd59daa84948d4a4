package config

// RateLimitConfig bounds the request rate accepted by the HTTP server.
type RateLimitConfig struct {
	RPS   int
	Burst int
}

func loadRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RPS:   intEnvOrDefault(envRateLimitRPS, defaultRateLimitRPS),
		Burst: intEnvOrDefault(envRateLimitBurst, defaultRateLimitBurst),
	}
}
