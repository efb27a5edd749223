package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"
)

// cacheVersion is bumped when the cache layout changes. Caches of another
// version are discarded.
const cacheVersion = 2

// Cache records a fingerprint of every generated file, with the size and
// modification time the file had when it was written. It is safe for
// concurrent use.
type Cache struct {
	path string

	mu    sync.Mutex
	dirty bool
	data  cacheData
}

type cacheData struct {
	Version int                   `msgpack:"version"`
	Files   map[string]cacheEntry `msgpack:"files"`
}

type cacheEntry struct {
	Sum     uint64 `msgpack:"sum"`
	Size    int64  `msgpack:"size"`
	ModTime int64  `msgpack:"mtime"`
}

// OpenCache reads the cache file at path. A missing, unreadable or
// outdated file yields an empty cache.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{path: path, data: cacheData{Version: cacheVersion, Files: make(map[string]cacheEntry)}}
	buf, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("dbgen: reading cache: %w", err)
	}
	var data cacheData
	if err := msgpack.Unmarshal(buf, &data); err != nil || data.Version != cacheVersion || data.Files == nil {
		c.dirty = true
		return c, nil
	}
	c.data = data
	return c, nil
}

// Fingerprint returns the fingerprint of a file content.
func Fingerprint(content []byte) uint64 {
	return xxh3.Hash(content)
}

// Unchanged reports if the file at path was generated with the same content
// and was not modified since. A file edited or removed after generation is
// reported as changed.
func (c *Cache) Unchanged(path string, content []byte) bool {
	c.mu.Lock()
	e, ok := c.data.Files[path]
	c.mu.Unlock()
	if !ok || e.Sum != Fingerprint(content) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() == e.Size && info.ModTime().UnixNano() == e.ModTime
}

// Put records the content of the file at path. It must be called after the
// file was written.
func (c *Cache) Put(path string, content []byte) {
	e := cacheEntry{Sum: Fingerprint(content)}
	if info, err := os.Stat(path); err == nil {
		e.Size, e.ModTime = info.Size(), info.ModTime().UnixNano()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.data.Files[path]; !ok || old != e {
		c.data.Files[path] = e
		c.dirty = true
	}
}

// Len returns the number of recorded files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data.Files)
}

// Save writes the cache file if it changed since it was opened.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	buf, err := msgpack.Marshal(&c.data)
	if err != nil {
		return fmt.Errorf("dbgen: encoding cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("dbgen: creating cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, buf, 0o644); err != nil {
		return fmt.Errorf("dbgen: writing cache: %w", err)
	}
	c.dirty = false
	return nil
}
