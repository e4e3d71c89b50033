package primitives

import "github.com/maypok86/otter/v2"

// Arena owns a dense, monotonically-indexed collection of T. Every
// parser that builds an on-disk entity graph (NTFS base+extension MFT
// entries, registry keys, ESE pages, OLE directory entries, Outlook
// nodes/blocks) stores nodes here instead of holding pointers that
// could outlive the bytes backing them. Indices are never reused
// within a run, matching the data model's arena invariant.
type Arena[T any] struct {
	items []T
}

// Put appends v and returns its index.
func (a *Arena[T]) Put(v T) int {
	a.items = append(a.items, v)
	return len(a.items) - 1
}

// Get returns the item at idx and whether idx was valid.
func (a *Arena[T]) Get(idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= len(a.items) {
		return zero, false
	}
	return a.items[idx], true
}

// Len reports how many items have been put.
func (a *Arena[T]) Len() int { return len(a.items) }

// BoundedCache is a fixed-capacity cache backed by otter's admission
// policy, the shape the $MFT directory-name cache (spec: 1,000
// entries) and the registry sk-offset-to-SID cache both need,
// implemented once. Unlike a hand-rolled insertion-ordered map, otter
// evicts by its own size-aware policy rather than strict oldest-first,
// which both callers accept: each cache exists purely to avoid
// redundant resolution work within a single walk, not to guarantee
// any particular entry survives.
type BoundedCache[K comparable, V any] struct {
	c *otter.Cache[K, V]
}

// NewBoundedCache creates a cache that holds at most capacity entries.
func NewBoundedCache[K comparable, V any](capacity int) *BoundedCache[K, V] {
	return &BoundedCache[K, V]{
		c: otter.Must(&otter.Options[K, V]{MaximumSize: capacity}),
	}
}

// Get returns the cached value for key, if present.
func (c *BoundedCache[K, V]) Get(key K) (V, bool) {
	entry, ok := c.c.GetEntry(key)
	if !ok {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Put inserts or overwrites key.
func (c *BoundedCache[K, V]) Put(key K, val V) {
	c.c.Set(key, val)
}

// VisitedSet is the cycle guard every graph walker (registry subkey
// recursion, ESE page traversal, OLE SAT chain, Outlook BTree descent)
// uses: a per-parser-invocation set of already-visited offsets/pages
// that is discarded with the parser.
type VisitedSet struct {
	seen map[int64]bool
}

// NewVisitedSet returns an empty guard.
func NewVisitedSet() *VisitedSet { return &VisitedSet{seen: make(map[int64]bool)} }

// VisitOnce records offset as visited and reports whether this is the
// first visit; a false return means the caller should abort this
// branch rather than recurse again.
func (v *VisitedSet) VisitOnce(offset int64) bool {
	if v.seen[offset] {
		return false
	}
	v.seen[offset] = true
	return true
}
