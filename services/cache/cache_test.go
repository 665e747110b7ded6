package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

func TestBlockKey(t *testing.T) {
	assert.Equal(t, "scrape_block:BMW X5:Daily", BlockKey("BMW X5", "Daily"))
}

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	err = mc.Set(BlockKey("BMW X5", "Daily"), []byte("1"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get(BlockKey("BMW X5", "Daily"))
	assert.NoError(t, err)
	assert.Equal(t, "1", string(value))

	err = mc.Delete(BlockKey("BMW X5", "Daily"))
	assert.NoError(t, err)

	_, err = mc.Get(BlockKey("BMW X5", "Daily"))
	assert.Error(t, err)
}
