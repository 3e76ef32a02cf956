package plans

import (
	"sync"
	"time"
)

// resultCache 缓存最近一次扫描结果，TTL 不大于零时禁用。
type resultCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	at   time.Time
	ok   bool
	data Leaderboard
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{ttl: ttl}
}

func (c *resultCache) get(now time.Time) (Leaderboard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok || c.ttl <= 0 || now.Sub(c.at) > c.ttl {
		return Leaderboard{}, false
	}
	return c.data, true
}

func (c *resultCache) set(lb Leaderboard, now time.Time) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.data = lb
	c.at = now
	c.ok = true
	c.mu.Unlock()
}

func (c *resultCache) invalidate() {
	c.mu.Lock()
	c.ok = false
	c.mu.Unlock()
}
