package kvstore

import "context"

// Store defines the persistent key-value operations the controller
// relies on. A missing key is not an error: Get returns the provided
// default and Remove is a no-op.
type Store interface {
	// Put durably stores value under key.
	Put(ctx context.Context, key, value string) error
	// Get returns the value stored under key, or def when absent.
	Get(ctx context.Context, key, def string) (string, error)
	// Remove deletes the key and its value.
	Remove(ctx context.Context, key string) error
}
