package providers

import (
	"context"
)

// CacheProvider defines the interface for the device-local key-value
// store backing engine state (risk records, schedules, metrics,
// prompt flags) as well as ordinary caching.
type CacheProvider interface {
	// Get retrieves a value from the store
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with expiration; expirationSeconds <= 0
	// means no expiry
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from the store
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the store
	Exists(ctx context.Context, key string) (bool, error)
}

// ErrCacheMiss is returned by Get when the key does not exist.
type ErrCacheMiss struct {
	Key string
}

func (e *ErrCacheMiss) Error() string {
	return "key not found: " + e.Key
}
