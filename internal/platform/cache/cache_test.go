package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRU_GetPut(t *testing.T) {
	c := NewLRU(8, time.Minute)

	_, ok := c.Get(Key("u1", "monthly|2024-05"))
	assert.False(t, ok)

	c.Put(Key("u1", "monthly|2024-05"), json.RawMessage(`[{"month":"2024-05","total":1000}]`))
	got, ok := c.Get(Key("u1", "monthly|2024-05"))
	assert.True(t, ok)
	assert.JSONEq(t, `[{"month":"2024-05","total":1000}]`, string(got))

	// same period, different user: distinct entries
	_, ok = c.Get(Key("u2", "monthly|2024-05"))
	assert.False(t, ok)
}

func TestLRU_Expiry(t *testing.T) {
	c := NewLRU(8, 10*time.Millisecond)
	c.Put("k", json.RawMessage(`1`))

	_, ok := c.Get("k")
	assert.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestKey_EmbedsPeriod(t *testing.T) {
	// month boundary changes the key, so stale aggregates die naturally
	assert.NotEqual(t, Key("u1", "monthly|2024-05"), Key("u1", "monthly|2024-06"))
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	c.Put("k", json.RawMessage(`1`))
	_, ok := c.Get("k")
	assert.False(t, ok)
}
