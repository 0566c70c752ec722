package mcptools

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

	"github.com/castrlabs/castr/builder"
	"github.com/castrlabs/castr/internal/options"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// specInput represents the three ways an OpenAPI document can be provided to
// a tool. Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// builtSpec is what the pipeline produces for one input: the IR document
// plus the parse-stage facts the tools report alongside it.
type builtSpec struct {
	doc      *ir.Document
	format   string
	warnings []string
}

// cacheEntry holds a cached build with LRU ordering and TTL expiry.
type cacheEntry struct {
	spec      *builtSpec
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore provides a session-scoped cache for built IR documents.
// Building the IR dominates tool latency, so the cache sits after the
// builder rather than after the parser. File inputs are keyed by
// (absolutePath, modTime). Content inputs are keyed by a SHA-256 hash.
// URL inputs are keyed by URL string. Entries have per-type TTLs and a
// background sweeper removes expired entries.
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

// get returns a cached build or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) *builtSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.spec
	}
	return nil
}

// putWithTTL stores a build with a specific TTL, evicting the oldest entry
// if at capacity.
func (c *docCacheStore) putWithTTL(key string, spec *builtSpec, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{spec: spec, insertAt: now, expiresAt: now.Add(ttl)}

	// If already cached, just update.
	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	// Evict oldest if at capacity.
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
// expired entries. It is safe to call multiple times; only the first call
// spawns a sweeper. It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	var sweeping atomic.Bool
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !sweeping.CompareAndSwap(false, true) {
					continue
				}
				c.sweep()
				sweeping.Store(false)
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

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given spec input.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s", hex.EncodeToString(h[:]))
	case s.URL != "":
		return fmt.Sprintf("url:%s", s.URL)
	default:
		return ""
	}
}

// resolve runs the parse and build pipeline for whichever input was
// provided, using the cache for file, URL, and content inputs. URL inputs
// are fetched first through the SSRF-guarded client; ctx bounds that fetch.
func (s specInput) resolve(ctx context.Context) (*builtSpec, error) {
	if err := options.ValidateSingleInputSource(
		"exactly one of file, url, or content must be provided; none given",
		"exactly one of file, url, or content must be provided; multiple given",
		s.File != "", s.URL != "", s.Content != "",
	); err != nil {
		return nil, err
	}

	// Enforce inline content size limit.
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set CASTR_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	// Determine cache key and TTL (skip when caching is disabled).
	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
		switch {
		case s.File != "":
			ttl = cfg.CacheFileTTL
		case s.URL != "":
			ttl = cfg.CacheURLTTL
		default:
			ttl = cfg.CacheContentTTL
		}
	}

	if key != "" {
		if cached := docCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var opts []parser.Option
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		data, err := fetchSpec(ctx, s.URL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, parser.WithBytes(data), parser.WithSourceName(s.URL))
	case s.Content != "":
		opts = append(opts, parser.WithBytes([]byte(s.Content)), parser.WithSourceName("inline"))
	}

	parsed, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	doc, err := builder.BuildIR(parsed)
	if err != nil {
		return nil, err
	}

	spec := &builtSpec{
		doc:      doc,
		format:   string(parsed.SourceFormat),
		warnings: parsed.Warnings,
	}

	// Cache the build for future calls (key is empty when caching is disabled).
	if key != "" {
		docCache.putWithTTL(key, spec, ttl)
	}

	return spec, nil
}
