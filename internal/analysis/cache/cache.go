// Package cache memoizes span-level analysis results. It is an explicit,
// constructor-injected component with bounded lifetime and visible stats so
// tests get clean isolation; nothing here is a package-level singleton.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Settings is everything that affects analysis output for identical code.
// Two calls differing only in settings must produce distinct keys.
type Settings struct {
	CheckComments    bool
	CheckStrings     bool
	CheckIdentifiers bool
	Severity         domain.Severity
	CheckerName      string
	CustomWords      []string
}

// Key derives the cache key for (code, language, settings). Custom words are
// sorted and folded first so equal word sets hash equally regardless of
// request order.
func Key(code, language string, s Settings) string {
	words := make([]string, len(s.CustomWords))
	for i, w := range s.CustomWords {
		words[i] = domain.FoldWord(w)
	}
	sort.Strings(words)

	h := sha256.New()
	h.Write([]byte(code))
	h.Write([]byte{0})
	h.Write([]byte(language))
	h.Write([]byte{0})
	var flags [3]byte
	if s.CheckComments {
		flags[0] = 1
	}
	if s.CheckStrings {
		flags[1] = 1
	}
	if s.CheckIdentifiers {
		flags[2] = 1
	}
	h.Write(flags[:])
	h.Write([]byte(s.Severity))
	h.Write([]byte{0})
	h.Write([]byte(s.CheckerName))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(words, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Size   int
	Hits   int64
	Misses int64
}

// Cache is a bounded LRU with TTL over per-fence findings. Concurrent get
// and set for the same key may recompute once redundantly; that waste is
// bounded and harmless.
type Cache struct {
	lru    *expirable.LRU[string, []domain.Finding]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding at most size entries, each for at most ttl.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 256
	}
	return &Cache{
		lru: expirable.NewLRU[string, []domain.Finding](size, nil, ttl),
	}
}

// Get returns the cached findings for key, if present and fresh.
func (c *Cache) Get(key string) ([]domain.Finding, bool) {
	findings, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
		return findings, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores findings for key, evicting the least recently used entry when
// full. Storing the same key again overwrites the previous value.
func (c *Cache) Set(key string, findings []domain.Finding) {
	c.lru.Add(key, findings)
}

// Stats returns current size and hit/miss counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Size:   c.lru.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
