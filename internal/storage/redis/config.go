package redis

import "time"

// Config holds Redis connection and retention settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// KeyPrefix namespaces all keys so several deployments can share a
	// database. Empty means DefaultKeyPrefix.
	KeyPrefix string

	PoolSize     int
	MinIdleConns int

	// Guests cannot log back in, so their records only need to outlive
	// their sessions. Zero keeps keys forever.
	GuestPlayerTTL time.Duration
	// Idle games expire this long after their last save. Zero keeps them.
	GameTTL time.Duration
}

// DefaultConfig returns the settings used when only REDIS_URL is given
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		KeyPrefix:      DefaultKeyPrefix,
		PoolSize:       10,
		MinIdleConns:   2,
		GuestPlayerTTL: 7 * 24 * time.Hour,
		GameTTL:        30 * 24 * time.Hour,
	}
}
