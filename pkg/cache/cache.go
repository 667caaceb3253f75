// Package cache provides LRU caching of analysis reports with disk
// persistence. Entries are keyed by source content hash plus method
// name, so a cached report stays valid exactly as long as the file it
// came from is unchanged.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/go-dataflow/pkg/analysis"
)

// DefaultFile is the default filename for the persisted cache.
const DefaultFile = "reports.msgpack"

// Key builds the cache key for one method of a source file. The hash
// is the SHA-256 of the file contents, so edits produce fresh keys.
func Key(hash, method string) string {
	return hash + "#" + method
}

// Entry is a cached analysis report with metadata.
type Entry struct {
	Key        string           `msgpack:"key"`
	Hash       string           `msgpack:"hash"`
	Report     *analysis.Report `msgpack:"report"`
	CreatedAt  time.Time        `msgpack:"created_at"`
	AccessedAt time.Time        `msgpack:"accessed_at"`
}

// Stats summarizes cache effectiveness.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Entries   int    `json:"entries"`
}

// LRUCache is an in-memory LRU cache of reports with optional disk
// persistence.
type LRUCache struct {
	mu         sync.RWMutex
	items      map[string]*listItem
	lru        *list // doubly-linked list (most recent at front)
	maxEntries int
	onEvict    func(*Entry)
	hits       uint64
	misses     uint64
	evictions  uint64
}

// listItem is an item in the doubly-linked list.
type listItem struct {
	Entry
	prev *listItem
	next *listItem
}

// list represents a doubly-linked list.
type list struct {
	head *listItem // most recently accessed
	tail *listItem // least recently accessed
	len  int
}

// newList creates a new doubly-linked list.
func newList() *list {
	return &list{}
}

// moveToFront moves an item to the front (most recently used).
func (l *list) moveToFront(item *listItem) {
	if item == l.head {
		return
	}

	// Remove from current position
	if item.prev != nil {
		item.prev.next = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	}
	if item == l.tail {
		l.tail = item.prev
	}

	// Add to front
	item.prev = nil
	item.next = l.head
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item

	if l.tail == nil {
		l.tail = item
	}
}

// removeBack removes and returns the least recently used item.
func (l *list) removeBack() *listItem {
	if l.tail == nil {
		return nil
	}

	item := l.tail
	l.tail = item.prev
	if l.tail != nil {
		l.tail.next = nil
	} else {
		l.head = nil
	}
	l.len--
	return item
}

// pushFront adds an item to the front of the list.
func (l *list) pushFront(item *listItem) {
	item.next = l.head
	item.prev = nil
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item
	if l.tail == nil {
		l.tail = item
	}
	l.len++
}

// remove unlinks an item from the list.
func (l *list) remove(item *listItem) {
	if item.prev != nil {
		item.prev.next = item.next
	} else {
		l.head = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	} else {
		l.tail = item.prev
	}
	l.len--
}

// Options configures the LRU cache.
type Options struct {
	// MaxEntries is the maximum number of cached reports.
	// 0 means unlimited.
	MaxEntries int

	// OnEvict is called when an entry is evicted or deleted.
	OnEvict func(*Entry)
}

// New creates a new LRU cache with the given options.
func New(opts Options) *LRUCache {
	return &LRUCache{
		items:      make(map[string]*listItem),
		lru:        newList(),
		maxEntries: opts.MaxEntries,
		onEvict:    opts.OnEvict,
	}
}

// Get retrieves a report from the cache.
func (c *LRUCache) Get(key string) (*analysis.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		c.misses++
		return nil, false
	}

	// Update access time and move to front
	item.AccessedAt = time.Now()
	c.lru.moveToFront(item)
	c.hits++
	return item.Report, true
}

// Set stores a report in the cache. The hash should be the content
// hash the key was built from.
func (c *LRUCache) Set(key, hash string, report *analysis.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, exists := c.items[key]; exists {
		item.Hash = hash
		item.Report = report
		item.AccessedAt = time.Now()
		c.lru.moveToFront(item)
		return
	}

	item := &listItem{
		Entry: Entry{
			Key:        key,
			Hash:       hash,
			Report:     report,
			CreatedAt:  time.Now(),
			AccessedAt: time.Now(),
		},
	}

	c.items[key] = item
	c.lru.pushFront(item)

	c.evictIfNeeded()
}

// Delete removes a key from the cache.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		return
	}

	c.lru.remove(item)
	delete(c.items, key)

	if c.onEvict != nil {
		c.onEvict(&item.Entry)
	}
}

// InvalidateHash removes every entry recorded under the given content
// hash and returns how many were dropped. Used when a file changes to
// prune reports for its previous revision.
func (c *LRUCache) InvalidateHash(hash string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, item := range c.items {
		if item.Hash != hash {
			continue
		}
		c.lru.remove(item)
		delete(c.items, key)
		removed++

		if c.onEvict != nil {
			c.onEvict(&item.Entry)
		}
	}
	return removed
}

// Clear removes all entries from the cache.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*listItem)
	c.lru = newList()
}

// Len returns the number of entries in the cache.
func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns hit and miss counters along with the current size.
func (c *LRUCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   len(c.items),
	}
}

// evictIfNeeded evicts entries while the cache exceeds its limit.
func (c *LRUCache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}
	for c.lru.len > c.maxEntries {
		item := c.lru.removeBack()
		if item == nil {
			break
		}
		delete(c.items, item.Key)
		c.evictions++

		if c.onEvict != nil {
			c.onEvict(&item.Entry)
		}
	}
}

// Save persists the cache to a writer using msgpack. Entries are
// written most recent first so a later Load restores the LRU order.
func (c *LRUCache) Save(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.items))
	for item := c.lru.head; item != nil; item = item.next {
		entries = append(entries, item.Entry)
	}

	enc := msgpack.NewEncoder(w)
	return enc.Encode(entries)
}

// Load restores the cache from a reader using msgpack.
func (c *LRUCache) Load(r io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entries []Entry
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode cache: %w", err)
	}

	c.items = make(map[string]*listItem)
	c.lru = newList()

	// Restore least recent first so pushFront rebuilds the order.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		item := &listItem{Entry: entry}
		c.items[entry.Key] = item
		c.lru.pushFront(item)
	}

	c.evictIfNeeded()
	return nil
}

// PersistToFile saves the cache to a file, creating parent
// directories as needed.
func PersistToFile(c *LRUCache, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	return c.Save(f)
}

// LoadFromFile loads the cache from a file.
func LoadFromFile(c *LRUCache, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No cache file is not an error
		}
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	return c.Load(f)
}
