package filestore

import "context"

// FileStore holds raw uploads and extracted video frames, keyed by the
// system-assigned storage name. Implementations must be safe for concurrent
// use.
type FileStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
