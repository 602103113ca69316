package service

import "context"

// ObjectStorage defines the interface for storing product images.
// The core only ever keeps the returned public URL on the product record.
type ObjectStorage interface {
	// Upload writes data under the given key and returns the public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object stored under the given key.
	Delete(ctx context.Context, key string) error
}
