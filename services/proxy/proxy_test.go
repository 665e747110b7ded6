package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotatorRoundRobin(t *testing.T) {
	r := NewRotator([]string{"http://p1:8080", "http://p2:8080"})

	assert.Equal(t, "http://p1:8080", r.Next())
	assert.Equal(t, "http://p2:8080", r.Next())
	assert.Equal(t, "http://p1:8080", r.Next())
	assert.Equal(t, 2, r.Size())
}

func TestRotatorEmpty(t *testing.T) {
	r := NewRotator(nil)
	assert.Equal(t, "", r.Next())
	assert.Equal(t, 0, r.Size())
}
