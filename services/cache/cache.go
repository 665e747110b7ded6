package cache

import (
	"fmt"
	"time"
)

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// BlockKey builds the throttle key recorded when a (car, scenario) search
// times out. While the key lives, the orchestrator skips that scenario
// instead of hammering a search that just failed.
func BlockKey(carName, scenario string) string {
	return fmt.Sprintf("scrape_block:%s:%s", carName, scenario)
}
