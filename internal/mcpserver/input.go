package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mjfusa/specguard/document"
)

// docInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type docInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON or YAML document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

func (d docInput) provided() bool {
	return d.File != "" || d.Content != ""
}

// cacheEntry holds a parsed document with LRU ordering and TTL expiry.
type cacheEntry struct {
	doc       any
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore is a session-scoped cache of parsed documents. File inputs
// are keyed by (absolutePath, modTime) and content inputs by a SHA-256 hash.
// Cached trees are shared; callers must not mutate them.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var docCache = &docCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached document and whether it was found. Expired entries
// are lazily removed.
func (c *docCacheStore) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	e.insertAt = time.Now()
	return e.doc, true
}

// put stores a document, evicting the least recently used entry if at capacity.
func (c *docCacheStore) put(key string, doc any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{doc: doc, insertAt: now, expiresAt: now.Add(ttl)}
	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}
	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Only the first call spawns a sweeper. It stops when ctx
// is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the cache key for d, or "" when d cannot be cached.
func (d docInput) cacheKey() string {
	switch {
	case d.File != "":
		abs, err := filepath.Abs(d.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(abs)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano())
	case d.Content != "":
		h := sha256.Sum256([]byte(d.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// check verifies that exactly one source is set and inline content is
// within the size limit.
func (d docInput) check(name string) error {
	switch {
	case d.File != "" && d.Content != "":
		return fmt.Errorf("%s: provide either file or content, not both", name)
	case !d.provided():
		return fmt.Errorf("%s: one of file or content must be provided", name)
	case int64(len(d.Content)) > cfg.MaxInlineSize:
		return fmt.Errorf("%s: inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set SPECGUARD_MAX_INLINE_SIZE to increase",
			name, len(d.Content), cfg.MaxInlineSize)
	}
	return nil
}

// resolve parses the document, using the cache when enabled.
func (d docInput) resolve(name string) (any, error) {
	if err := d.check(name); err != nil {
		return nil, err
	}

	var key string
	if cfg.CacheEnabled {
		key = d.cacheKey()
	}
	if key != "" {
		if doc, ok := docCache.get(key); ok {
			return doc, nil
		}
	}

	var (
		doc any
		err error
	)
	if d.File != "" {
		doc, err = document.Load(d.File, name)
	} else {
		doc, err = document.ParseBytes([]byte(d.Content), "")
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		docCache.put(key, doc, cfg.CacheTTL)
	}
	return doc, nil
}

// raw returns the document bytes without parsing.
func (d docInput) raw(name string) ([]byte, error) {
	if err := d.check(name); err != nil {
		return nil, err
	}
	if d.Content != "" {
		return []byte(d.Content), nil
	}
	data, err := os.ReadFile(d.File) //nolint:gosec // G304 - path is user-provided input (MCP tool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}
