package analysis

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

const (
	defaultCacheSize = 4096
	defaultCacheTTL  = 24 * time.Hour
	cacheKeyLength   = 100
)

type cacheEntry struct {
	result   contract.Result
	storedAt time.Time
}

// ResultCache keeps recent analysis results behind an LRU with a TTL on
// top. Expired entries are dropped lazily on read, so the cache never needs
// a sweeper goroutine.
type ResultCache struct {
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
}

func NewResultCache(size int, ttl time.Duration) (*ResultCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{entries: entries, ttl: ttl}, nil
}

// CacheKey derives the lookup key from the first 100 characters of the
// title and content combined. Entries longer than that are considered
// equivalent if they share the same opening.
func CacheKey(title, content string) string {
	combined := []rune(title + content)
	if len(combined) > cacheKeyLength {
		combined = combined[:cacheKeyLength]
	}
	return string(combined)
}

func (c *ResultCache) Get(key string) (contract.Result, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return contract.Result{}, false
	}
	if time.Since(entry.storedAt) >= c.ttl {
		c.entries.Remove(key)
		return contract.Result{}, false
	}
	return entry.result, true
}

func (c *ResultCache) Put(key string, result contract.Result) {
	c.entries.Add(key, cacheEntry{result: result, storedAt: time.Now()})
}

func (c *ResultCache) Len() int {
	return c.entries.Len()
}

func (c *ResultCache) Purge() {
	c.entries.Purge()
}
