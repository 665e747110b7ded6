package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService implements CacheService on memcache. The engine uses it
// to hold scenario block keys, so entries are small and expiry does the
// cleanup.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService connects to the memcache server at serverAddr.
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get returns the value stored under key. A miss surfaces as
// memcache.ErrCacheMiss.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores value under key until expiration elapses.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}

// Delete drops key so the next scrape of the blocked scenario runs again.
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(key)
}
