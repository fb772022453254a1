// Package storage persists save blobs behind a small key-value
// interface. Saving is best-effort: the engine logs and ignores
// failures here.
package storage

import "context"

// SaveStore is the persistence contract for serialized game snapshots.
type SaveStore interface {
	// Get returns the stored blob, or "" when no value exists.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
