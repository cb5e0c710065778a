package redis

import (
	"time"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
)

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SummaryTTL is how long an archived match summary is kept
	SummaryTTL time.Duration

	// HistoryLength caps the newest-first list of archived match IDs
	HistoryLength int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:           "redis://localhost:6379",
		PoolSize:      10,
		MinIdleConns:  2,
		SummaryTTL:    7 * 24 * time.Hour,
		HistoryLength: storage.DefaultHistoryLength,
	}
}
