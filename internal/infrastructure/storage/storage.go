package storage

import (
	"context"
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// ArtifactStore keeps generated documents (loan agreements) and hands out
// time-limited download links.
type ArtifactStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
