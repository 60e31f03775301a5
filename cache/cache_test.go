package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	err := c.Set(ctx, "quote:AAPL", []byte(`{"price":190.5}`), time.Minute)
	require.NoError(t, err)

	val, ok := c.Get(ctx, "quote:AAPL")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"price":190.5}`), val)

	_, ok = c.Get(ctx, "quote:MSFT")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	_, ok := c.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "expired entry should behave as a miss")

	// Expired entry is removed on read
	c.mu.Lock()
	_, present := c.items["k"]
	c.mu.Unlock()
	assert.False(t, present)
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))

	time.Sleep(15 * time.Millisecond)

	_, ok := c.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type quote struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"price"`
	}

	in := quote{Symbol: "TSLA", Price: 244.4}
	require.NoError(t, SetJSON(ctx, c, "quote:TSLA", in, time.Minute))

	var out quote
	ok := GetJSON(ctx, c, "quote:TSLA", &out)
	require.True(t, ok)
	assert.Equal(t, in, out)

	var missing quote
	assert.False(t, GetJSON(ctx, c, "quote:NVDA", &missing))
}
