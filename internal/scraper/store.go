package scraper

import (
	"sort"
	"sync"
)

// Store holds the records of the most recent scrape run. HTTP handlers
// read it concurrently with an in-flight run appending to it, so access
// is mutex guarded.
type Store struct {
	mu      sync.RWMutex
	records []ListingRecord
}

// NewStore creates an empty record store
func NewStore() *Store {
	return &Store{}
}

// Reset drops all records. Called at the start of each run so every run
// reflects a single request.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// Append adds the records of one completed scenario
func (s *Store) Append(records []ListingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Snapshot returns a copy of all records
func (s *Store) Snapshot() []ListingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ListingRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the current record count
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Years returns the distinct extracted model years in ascending order,
// excluding the sentinel
func (s *Store) Years() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.records, func(r ListingRecord) string {
		if r.Year == NotAvailable {
			return ""
		}
		return r.Year
	})
}

// CarNames returns the distinct extracted card titles in ascending order
func (s *Store) CarNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.records, func(r ListingRecord) string {
		if r.CarName == NotAvailable {
			return ""
		}
		return r.CarName
	})
}

func distinct(records []ListingRecord, key func(ListingRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
