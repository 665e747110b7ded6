// Package proxy rotates the browser sessions across a configured set of
// upstream proxy servers. An empty set means direct connections.
package proxy

import (
	"sync"
)

// Rotator hands out proxy addresses round-robin
type Rotator struct {
	mu      sync.Mutex
	servers []string
	next    int
}

// NewRotator creates a rotator over the given proxy addresses
func NewRotator(servers []string) *Rotator {
	return &Rotator{servers: servers}
}

// Next returns the next proxy address, or an empty string when no
// proxies are configured
func (r *Rotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.servers) == 0 {
		return ""
	}
	server := r.servers[r.next%len(r.servers)]
	r.next++
	return server
}

// Size returns the number of configured proxies
func (r *Rotator) Size() int {
	return len(r.servers)
}
