package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryClient struct {
	prefix string
	c      *gocache.Cache
}

// NewMemory returns an in-process client. Expired entries are swept every minute.
func NewMemory(prefix string) Client {
	return &memoryClient{prefix: prefix, c: gocache.New(gocache.NoExpiration, time.Minute)}
}

// go-cache treats 0 as "use the default"; map it to NoExpiration explicitly.
func ttlOf(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

// SetIfAbsent relies on gocache.Add, which fails when an unexpired item exists.
func (m *memoryClient) SetIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := m.c.Add(prefixed(m.prefix, key), value, ttlOf(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(prefixed(m.prefix, key))
	return nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}

func (m *memoryClient) Stats(context.Context) (Stats, error) {
	return Stats{Driver: DriverMemory, Keys: int64(m.c.ItemCount())}, nil
}
