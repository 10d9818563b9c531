package payments

import (
	"sync"
	"time"

	"bengkelku.id/app/internal/modules/orders"
)

// statusCache serves the polling endpoint for a few seconds per order so
// client polling does not hammer the database. Entries are dropped on every
// write the engine applies, so staleness is bounded by the TTL only for
// writes arriving through other processes.
type statusCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	order   orders.Order
	expires time.Time
}

func newStatusCache(ttl time.Duration) *statusCache {
	return &statusCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *statusCache) get(orderID string) (orders.Order, bool) {
	if c.ttl <= 0 {
		return orders.Order{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[orderID]
	if !ok || time.Now().After(e.expires) {
		delete(c.entries, orderID)
		return orders.Order{}, false
	}
	return e.order, true
}

func (c *statusCache) set(o orders.Order) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[o.ID] = cacheEntry{order: o, expires: time.Now().Add(c.ttl)}
}

func (c *statusCache) invalidate(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, orderID)
}
