// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package seqcache implements an LRU sequence cache: an in-memory map
// keyed by sequence name, backed by a Fetcher collaborator that does the
// actual file I/O. Fetcher implementations (random-access FASTA + .fai,
// S3-backed FASTA, etc.) are out of scope for this package, which only
// owns eviction and synchronization.
package seqcache

import (
	"container/list"
	"sync"

	"github.com/pkg/errors"
)

// Fetcher is the external collaborator that resolves a sequence name to its
// bytes and length. encoding/fasta.Fasta satisfies a narrower version of
// this contract; any random-access FASTA backend can implement it.
type Fetcher interface {
	Fetch(name string) ([]byte, error)
	Len(name string) (uint64, error)
}

// Cache is an LRU map from sequence name to an immutable byte slice,
// fronting a Fetcher. Eviction is LRU; the cache is safe for concurrent
// use by multiple chromosome-pipeline goroutines, since chromosomes run as
// independent tasks sharing only the two sequence caches.
//
// The standard library's container/list is used for the eviction order
// instead of a third-party LRU package: none of the pack's dependencies
// (biogo/store's llrb/skiplist, grailbio/base) expose a name-keyed LRU
// cache, and this is a ~30-line mechanism not worth pulling in a dependency
// for (see DESIGN.md).
type Cache struct {
	fetcher  Fetcher
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type cacheEntry struct {
	name string
	seq  []byte
}

// New creates a Cache with the given capacity, backed by fetcher. Capacity
// is tuned for memory, not correctness: a capacity-1 reference cache
// and a capacity-10 query cache are the values this pipeline uses.
func New(fetcher Fetcher, capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		fetcher:  fetcher,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the bytes for the named sequence, fetching and caching it (and
// evicting the least-recently-used entry if at capacity) on a miss.
// Fetch failure is always fatal: the caller should treat a
// non-nil error as aborting the enclosing call.
func (c *Cache) Get(name string) ([]byte, error) {
	c.mu.Lock()
	if el, ok := c.entries[name]; ok {
		c.order.MoveToFront(el)
		seq := el.Value.(*cacheEntry).seq
		c.mu.Unlock()
		return seq, nil
	}
	c.mu.Unlock()

	seq, err := c.fetcher.Fetch(name)
	if err != nil {
		return nil, errors.Wrapf(err, "seqcache: missing sequence %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have populated this entry while we fetched
	// without the lock held; prefer the existing entry to keep a single
	// canonical byte slice per name in the cache.
	if el, ok := c.entries[name]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).seq, nil
	}

	el := c.order.PushFront(&cacheEntry{name: name, seq: seq})
	c.entries[name] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).name)
		}
	}
	return seq, nil
}

// Len returns the length of the named sequence without necessarily
// populating the cache.
func (c *Cache) Len(name string) (uint64, error) {
	n, err := c.fetcher.Len(name)
	if err != nil {
		return 0, errors.Wrapf(err, "seqcache: missing sequence %q", name)
	}
	return n, nil
}
