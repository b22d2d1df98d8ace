// Package metadata is the client's small key/value store. It holds the
// persisted auth session.
package metadata

import "context"

type Repository interface {
	// Get returns (nil, nil) for an absent key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}
