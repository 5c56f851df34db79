package fielddef

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedLoader wraps a Loader with an LRU of definitions keyed by path. An
// entry is only served while the file's modification time and size match
// what was loaded, so an edited definition takes effect on the next request.
// Failed loads are not cached.
type CachedLoader struct {
	inner   Loader
	cache   *lru.Cache[string, cachedDefinition]
	stat    func(path string) (os.FileInfo, error)
	observe func(hit bool)
}

type cachedDefinition struct {
	def     Definition
	modTime time.Time
	size    int64
}

func (c cachedDefinition) current(info os.FileInfo) bool {
	return c.size == info.Size() && c.modTime.Equal(info.ModTime())
}

// NewCachedLoader creates a cache decorator around a loader. observe, when
// non-nil, is called on every lookup with the cache outcome.
func NewCachedLoader(inner Loader, maxEntries int, observe func(hit bool)) *CachedLoader {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, cachedDefinition](max(maxEntries, 1))
	return &CachedLoader{
		inner:   inner,
		cache:   cache,
		stat:    os.Stat,
		observe: observe,
	}
}

func (c *CachedLoader) Load(path string) (Definition, error) {
	info, statErr := c.stat(path)
	if statErr == nil {
		if e, ok := c.cache.Get(path); ok && e.current(info) {
			c.record(true)
			return e.def, nil
		}
	}
	c.record(false)

	def, err := c.inner.Load(path)
	if err != nil {
		c.cache.Remove(path)
		return Definition{}, err
	}
	if statErr == nil {
		c.cache.Add(path, cachedDefinition{def: def, modTime: info.ModTime(), size: info.Size()})
	}
	return def, nil
}

func (c *CachedLoader) record(hit bool) {
	if c.observe != nil {
		c.observe(hit)
	}
}
