package storage

import (
	"context"
	"io"
)

type PutInput struct {
	// Key pins the object name (archive snapshots). When empty a random key
	// is generated from Filename's extension (transfer proof uploads).
	Key         string
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}
