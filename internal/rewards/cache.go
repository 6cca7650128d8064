package rewards

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader builds the pool of a case at a given catalog version.
type Loader func() (*Pool, error)

type cacheEntry struct {
	version int64
	pool    *Pool
	err     error
}

// Cache memoises one built pool per case, keyed by the case's pool version.
// A draw therefore sees exactly one complete version. Pools that failed
// validation are remembered as broken until the version changes.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]cacheEntry
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int64]cacheEntry)}
}

// Get returns the pool for caseID at version, calling load at most once per
// version across concurrent callers. Storage errors are not cached.
func (c *Cache) Get(caseID, version int64, load Loader) (*Pool, error) {
	c.mu.RLock()
	e, ok := c.entries[caseID]
	c.mu.RUnlock()

	if ok && e.version == version {
		return e.pool, e.err
	}

	key := strconv.FormatInt(caseID, 10) + "@" + strconv.FormatInt(version, 10)

	v, err, _ := c.group.Do(key, func() (any, error) {
		p, err := load()
		if err != nil && !errors.Is(err, ErrInvalidPool) {
			return nil, err
		}

		if p != nil && p.Version() != version {
			return nil, fmt.Errorf("loaded pool version %d, want %d", p.Version(), version)
		}

		c.mu.Lock()
		cur, seen := c.entries[caseID]
		if !seen || cur.version <= version {
			c.entries[caseID] = cacheEntry{version: version, pool: p, err: err}
		}
		c.mu.Unlock()

		return p, err
	})
	if err != nil {
		return nil, err
	}

	return v.(*Pool), nil
}

// Invalidate forgets whatever is cached for caseID.
func (c *Cache) Invalidate(caseID int64) {
	c.mu.Lock()
	delete(c.entries, caseID)
	c.mu.Unlock()
}
