package config

import "time"

// RateLimitConfig drives the fixed-window request limiter.
type RateLimitConfig struct {
	Enabled bool
	Prefix  string        // Redis key prefix
	Limit   int           // requests allowed per window
	Window  time.Duration // window length
}

// LoadRateLimit reads limiter settings with sensible defaults; only
// RATE_LIMIT_ENABLED is needed to switch it on.
func LoadRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", false),
		Prefix:  "rl",
		Limit:   envInt("RATE_LIMIT_MAX", 60),
		Window:  time.Duration(envInt("RATE_LIMIT_WINDOW_SEC", 60)) * time.Second,
	}
}

// CacheConfig drives the public-endpoint response cache.
type CacheConfig struct {
	Enabled bool
	Prefix  string
	TTL     time.Duration
}

func LoadCache() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", false),
		Prefix:  "cache",
		TTL:     time.Duration(envInt("CACHE_TTL_SEC", 30)) * time.Second,
	}
}
