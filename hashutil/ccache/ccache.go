package ccache

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"massnet.org/sha2/hashutil"
)

// FileKey identifies one version of a file on disk.
type FileKey struct {
	Path    string
	Size    int64
	ModTime int64
}

// NewFileKey builds a FileKey, truncating modTime to nanoseconds since epoch.
func NewFileKey(path string, size int64, modTime time.Time) FileKey {
	return FileKey{Path: path, Size: size, ModTime: modTime.UnixNano()}
}

// concurrent safe lru cache of file digests
type CCache struct {
	l     sync.Mutex
	cache *lru.Cache
}

func NewCCache(maxEntries int) *CCache {
	return &CCache{
		cache: lru.New(maxEntries),
	}
}

// read only
func (c *CCache) Get(key FileKey) (hashutil.Hash, bool) {
	c.l.Lock()
	defer c.l.Unlock()
	v, ok := c.cache.Get(key)
	if !ok {
		return hashutil.Hash{}, false
	}
	return v.(hashutil.Hash), true
}

func (c *CCache) Add(key FileKey, h hashutil.Hash) {
	c.l.Lock()
	c.cache.Add(key, h)
	c.l.Unlock()
}

func (c *CCache) Remove(key FileKey) {
	c.l.Lock()
	c.cache.Remove(key)
	c.l.Unlock()
}

func (c *CCache) Len() int {
	c.l.Lock()
	defer c.l.Unlock()
	return c.cache.Len()
}

func (c *CCache) Clear() {
	c.l.Lock()
	c.cache.Clear()
	c.l.Unlock()
}
