package storage

import (
	"context"
)

// Storage is a durable key-value store holding JSON documents.
// Get returns model.ErrNotFound when the key is absent.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
