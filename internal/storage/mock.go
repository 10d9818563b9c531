package storage

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Mem keeps objects in a map; used by tests.
type Mem struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewMem() *Mem {
	return &Mem{Objects: make(map[string][]byte)}
}

func (m *Mem) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return PutResult{}, m.Err
	}
	key := in.Key
	if key == "" {
		key = uuid.NewString() + safeExt(in.Filename)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return PutResult{}, err
	}
	m.Objects[key] = b
	return PutResult{Key: key, URL: "mem://" + key}, nil
}

func (m *Mem) Delete(ctx context.Context, key string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}
