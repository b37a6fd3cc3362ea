// Package storage abstracts the object storage bucket holding evidence
// images. Keys are namespaced by client id.
package storage

import (
	"context"
	"errors"
	"net"
)

// ObjectStore is the consumed surface of the object storage bucket.
type ObjectStore interface {
	// Put stores data under key and returns the public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL returns the public URL for key without touching the store.
	PublicURL(key string) string
}

// IsTransient reports whether a storage error is a network or timeout
// failure that is safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
