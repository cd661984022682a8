package shared

import (
	"context"
	"time"
)

// IdempotencyStore defines the interface for claiming idempotency keys.
// Implementations must make Claim atomic across concurrent callers.
type IdempotencyStore interface {
	// Claim marks the key as taken with a TTL.
	// Returns true if the key was newly claimed, false if it was already taken.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a previously claimed key so a failed operation can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a claimed key blocks replays
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
