package redis

import "time"

// Config selects the Redis server holding the device state and registry
type Config struct {
	URL string

	PoolSize     int
	MinIdleConns int

	// ConnectTimeout bounds dialing and the startup ping
	ConnectTimeout time.Duration

	// KeyPrefix namespaces every key so several academies can share one server.
	// Empty means keys are stored bare.
	KeyPrefix string
}

// DefaultConfig returns the settings used for a single in-store server
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		ConnectTimeout: 5 * time.Second,
		KeyPrefix:      "academy",
	}
}
