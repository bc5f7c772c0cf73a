// Package cache is a time-boxed read-through cache for aggregation results.
//
// It is an optimization only: any implementation, including none at all, is
// contract-compatible. Keys embed the current billing period so crossing a
// month boundary invalidates stale aggregates without explicit invalidation.
package cache

import (
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/fx"

	cfgpkg "github.com/subtrackhq/subtrack/pkg/config"
)

type Cache interface {
	Get(key string) (json.RawMessage, bool)
	Put(key string, value json.RawMessage)
}

// Key builds the cache key for one user's aggregate in one period. The
// period key must include the current "YYYY-MM" so entries are never shared
// across users or months.
func Key(ownerID, periodKey string) string {
	return ownerID + "|" + periodKey
}

type lruCache struct {
	lru *expirable.LRU[string, json.RawMessage]
}

// NewLRU returns a fixed-TTL, size-bounded in-memory cache. Entries live at
// most ttl and never survive the process.
func NewLRU(size int, ttl time.Duration) Cache {
	return &lruCache{lru: expirable.NewLRU[string, json.RawMessage](size, nil, ttl)}
}

func (c *lruCache) Get(key string) (json.RawMessage, bool) {
	return c.lru.Get(key)
}

func (c *lruCache) Put(key string, value json.RawMessage) {
	c.lru.Add(key, value)
}

// Noop disables caching entirely; every read recomputes.
type Noop struct{}

func (Noop) Get(string) (json.RawMessage, bool) { return nil, false }
func (Noop) Put(string, json.RawMessage)        {}

func New(cfg *cfgpkg.Config) Cache {
	if cfg.Cache.Size <= 0 {
		return Noop{}
	}
	return NewLRU(cfg.Cache.Size, cfg.Cache.TTL)
}

var Module = fx.Options(
	fx.Provide(New),
)
