package dedup

import (
	"container/list"
	"context"
	"sync"
	"time"

	"NewsScreener/internal/ports"
)

// Memory is a TTL-bound LRU of seen article IDs. It covers a single
// process lifetime; use the Redis cache to dedup across runs.
type Memory struct {
	mu    sync.Mutex
	cap   int
	ttl   time.Duration
	ll    *list.List               // most-recent at front
	items map[string]*list.Element // key -> element
}

var _ ports.SeenCache = (*Memory)(nil)

type entry struct {
	key string
	exp time.Time
}

// NewMemory builds the cache; non-positive arguments get defaults.
func NewMemory(maxKeys int, ttl time.Duration) *Memory {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Memory{cap: maxKeys, ttl: ttl, ll: list.New(), items: make(map[string]*list.Element, maxKeys)}
}

// Seen reports whether the key is present and unexpired.
func (m *Memory) Seen(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		en := el.Value.(entry)
		if time.Now().Before(en.exp) {
			m.ll.MoveToFront(el)
			return true, nil
		}
		m.ll.Remove(el)
		delete(m.items, key)
	}
	return false, nil
}

// Mark records the key, refreshing its TTL and evicting over capacity.
func (m *Memory) Mark(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		en := el.Value.(entry)
		en.exp = time.Now().Add(m.ttl)
		el.Value = en
		m.ll.MoveToFront(el)
		return nil
	}

	el := m.ll.PushFront(entry{key: key, exp: time.Now().Add(m.ttl)})
	m.items[key] = el

	for m.ll.Len() > m.cap {
		t := m.ll.Back()
		if t == nil {
			break
		}
		old := t.Value.(entry)
		m.ll.Remove(t)
		delete(m.items, old.key)
	}
	// drop expired entries hanging at the tail
	for {
		t := m.ll.Back()
		if t == nil || time.Now().Before(t.Value.(entry).exp) {
			break
		}
		m.ll.Remove(t)
		delete(m.items, t.Value.(entry).key)
	}
	return nil
}
