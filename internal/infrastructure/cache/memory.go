package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is an in-process fixed-window counter, used for rate
// limiting when Redis is not configured. Windows are cleaned up by a
// background goroutine.
type MemoryCounter struct {
	mu    sync.Mutex
	items map[string]*counterItem
}

type counterItem struct {
	count      int64
	expireTime time.Time
}

// NewMemoryCounter creates a new in-memory counter
func NewMemoryCounter() *MemoryCounter {
	counter := &MemoryCounter{
		items: make(map[string]*counterItem),
	}

	// Start cleanup goroutine to remove expired windows
	go counter.cleanupExpired()

	return counter
}

// Incr increments the counter for a key within its window and returns
// the new count. The first increment of a window sets its expiry.
func (mc *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	item, exists := mc.items[key]
	if !exists || now.After(item.expireTime) {
		item = &counterItem{expireTime: now.Add(window)}
		mc.items[key] = item
	}
	item.count++
	return item.count, nil
}

// cleanupExpired periodically removes expired windows
func (mc *MemoryCounter) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		mc.mu.Lock()
		now := time.Now()
		for key, item := range mc.items {
			if now.After(item.expireTime) {
				delete(mc.items, key)
			}
		}
		mc.mu.Unlock()
	}
}
