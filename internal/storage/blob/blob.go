// Package blob abstracts the object storage holding uploaded images.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrUpstream marks failures of the storage backend itself (credentials,
// missing bucket, permissions) as opposed to bad caller input.
var ErrUpstream = errors.New("blob storage failure")

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	// Put stores the content under key and returns the public URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (*PutResult, error)
	// Delete removes the content under key.
	Delete(ctx context.Context, key string) error
}
