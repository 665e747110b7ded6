package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreDistinctQueries(t *testing.T) {
	s := NewStore()
	s.Append([]ListingRecord{
		{CarName: "BMW X5", Year: "2023"},
		{CarName: "BMW X5", Year: "2021"},
		{CarName: "Audi Q7", Year: NotAvailable},
		{CarName: NotAvailable, Year: "2021"},
	})

	assert.Equal(t, []string{"2021", "2023"}, s.Years())
	assert.Equal(t, []string{"Audi Q7", "BMW X5"}, s.CarNames())
	assert.Equal(t, 4, s.Len())

	s.Reset()
	assert.Empty(t, s.Snapshot())
	assert.Empty(t, s.Years())
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Append([]ListingRecord{{CarName: "BMW X5"}})

	snap := s.Snapshot()
	snap[0].CarName = "mutated"
	assert.Equal(t, "BMW X5", s.Snapshot()[0].CarName)
}
