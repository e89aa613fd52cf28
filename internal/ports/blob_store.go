package ports

import "context"

// BlobStore is durable string-keyed blob storage. Keys are scoped by the
// caller (typically "<prefix>:<identity id>"); the store itself knows nothing
// about identities.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
