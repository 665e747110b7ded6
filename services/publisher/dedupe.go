package publisher

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// dedupe remembers recently published record keys so re-scrapes of the
// same offers do not flood the stream with duplicates. The LRU bound
// keeps memory flat across long-lived processes.
type dedupe struct {
	seen *lru.Cache[string, struct{}]
}

func newDedupe(size int) (*dedupe, error) {
	seen, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, err
	}
	return &dedupe{seen: seen}, nil
}

// shouldPublish records the key and reports whether it was unseen
func (d *dedupe) shouldPublish(key string) bool {
	if d.seen.Contains(key) {
		return false
	}
	d.seen.Add(key, struct{}{})
	return true
}
