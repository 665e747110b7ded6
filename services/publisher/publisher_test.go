package publisher

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeSuppressesRepeats(t *testing.T) {
	d, err := newDedupe(8)
	require.NoError(t, err)

	assert.True(t, d.shouldPublish("BMW X5|2023|daily|AED 390"))
	assert.False(t, d.shouldPublish("BMW X5|2023|daily|AED 390"))
	assert.True(t, d.shouldPublish("BMW X5|2023|weekly|AED 2100"))
}

func TestDedupeEvictsOldKeys(t *testing.T) {
	d, err := newDedupe(2)
	require.NoError(t, err)

	d.shouldPublish("a")
	d.shouldPublish("b")
	d.shouldPublish("c")

	// "a" was evicted and publishes again
	assert.True(t, d.shouldPublish("a"))
}

// This test requires a running Redis instance
// If Redis is not available, the test will be skipped
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 0})
	defer client.Close()
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	publisher, err := NewRedisPublisher(ctx, "localhost:6379", 0, "test_listings", 1, 10)
	require.NoError(t, err)
	defer publisher.Close()

	err = publisher.Publish("test_record", []byte(`{"car_name":"BMW X5"}`))
	assert.NoError(t, err)

	// duplicate key is silently dropped
	err = publisher.Publish("test_record", []byte(`{"car_name":"BMW X5"}`))
	assert.NoError(t, err)

	entries, err := client.XRange(ctx, "test_listings:0", "-", "+").Result()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.NoError(t, publisher.TrimStreams())

	client.Del(ctx, "test_listings:0")
}
