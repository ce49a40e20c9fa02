package memo

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_getPut(t *testing.T) {
	t.Parallel()

	c := New[string, int](time.Minute, 0)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	c.Put("a", 2)
	got, _ = c.Get("a")
	assert.Equal(t, 2, got, "put replaces")
}

func TestCache_expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, string](5*time.Minute, 0)
	c.now = func() time.Time { return now }

	c.Put("k", "v")

	now = now.Add(5*time.Minute - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry live just before the deadline")

	now = now.Add(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry expired at the deadline")
	assert.Zero(t, c.Len(), "expired entry dropped on access")
}

func TestCache_neverExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, string](0, 0)
	c.now = func() time.Time { return now }

	c.Put("k", "v")
	now = now.Add(1000 * time.Hour)

	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestCache_evictsOldest(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, int](time.Hour, 3)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
		now = now.Add(time.Second)
	}
	assert.Equal(t, 3, c.Len())

	c.Put("k3", 3)
	assert.Equal(t, 3, c.Len(), "size stays bounded")

	_, ok := c.Get("k0")
	assert.False(t, ok, "oldest entry evicted")
	for i := 1; i <= 3; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should survive", i)
	}
}

func TestCache_replaceDoesNotEvict(t *testing.T) {
	t.Parallel()

	c := New[string, int](0, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 3)

	assert.Equal(t, 2, c.Len())
	got, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}
