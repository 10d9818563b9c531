package orders

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store with the same compare-and-swap semantics as
// Repo. Used by tests and by nothing else in production paths.
type MemStore struct {
	mu     sync.Mutex
	orders map[string]Order
}

func NewMemStore() *MemStore {
	return &MemStore{orders: make(map[string]Order)}
}

func (m *MemStore) Create(ctx context.Context, o *Order) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Version == 0 {
		o.Version = 1
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *MemStore) Get(ctx context.Context, id string) (Order, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (m *MemStore) ByGatewayRef(ctx context.Context, ref string) (Order, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.GatewayTxnRef != nil && *o.GatewayTxnRef == ref {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (m *MemStore) ListByOwner(ctx context.Context, ownerID string) ([]Order, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for _, o := range m.orders {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) Update(ctx context.Context, o Order) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[o.ID]
	if !ok {
		return ErrStale
	}
	if cur.Version != o.Version {
		return ErrStale
	}
	o.Version++
	m.orders[o.ID] = o
	return nil
}

func (m *MemStore) Delete(ctx context.Context, id string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}
