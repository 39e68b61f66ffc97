// Copyright (c) 2022 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package dig

import (
	"fmt"
	"sync"
)

type scopeKind int

const (
	unscoped scopeKind = iota
	reusable
	singleton
)

// Scope is the lifetime policy of a Binding.
//
// The zero value is Unscoped.
type Scope struct {
	kind scopeKind
	name string
}

var (
	// Unscoped bindings are constructed for every dependency edge.
	Unscoped = Scope{}

	// Reusable bindings are constructed at most once per top-level
	// resolution. Separate calls to Resolve never share them.
	Reusable = Scope{kind: reusable}
)

// Singleton returns the scope of bindings that have exactly one instance
// per live component instance owning the named scope.
func Singleton(name string) Scope {
	return Scope{kind: singleton, name: name}
}

// Name is the singleton scope name, empty for other scopes.
func (s Scope) Name() string { return s.name }

// IsUnscoped reports whether s is Unscoped.
func (s Scope) IsUnscoped() bool { return s.kind == unscoped }

// IsReusable reports whether s is Reusable.
func (s Scope) IsReusable() bool { return s.kind == reusable }

// IsSingleton reports whether s is a Singleton scope.
func (s Scope) IsSingleton() bool { return s.kind == singleton }

func (s Scope) String() string {
	switch s.kind {
	case reusable:
		return "reusable"
	case singleton:
		return fmt.Sprintf("singleton(%s)", s.name)
	default:
		return "unscoped"
	}
}

// Cache holds the scoped instances of one component instance. Entries are
// only ever added; the whole cache becomes unreachable with its
// component.
type Cache struct {
	scope  string
	parent *Cache

	mu      sync.Mutex
	entries map[cacheSlot]*cacheEntry
}

type cacheSlot struct {
	key  Key
	slot int
}

type cacheEntry struct {
	mu    sync.Mutex
	done  bool
	value any
}

// NewCache creates the cache of a component instance owning scope (empty
// for unscoped components). parent is the cache of the parent component
// instance, nil for root components.
func NewCache(scope string, parent *Cache) *Cache {
	return &Cache{
		scope:   scope,
		parent:  parent,
		entries: make(map[cacheSlot]*cacheEntry),
	}
}

// newResolutionCache holds Reusable instances for one top-level call.
func newResolutionCache() *Cache {
	return NewCache("", nil)
}

// Scope returns the singleton scope owned by this cache.
func (c *Cache) Scope() string { return c.scope }

// Parent returns the cache of the parent component, or nil.
func (c *Cache) Parent() *Cache { return c.parent }

// Owner returns the nearest cache, starting at c and walking up, that owns
// scope. It returns nil if no ancestor does.
func (c *Cache) Owner(scope string) *Cache {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.scope == scope {
			return cur
		}
	}
	return nil
}

// Len returns the number of instances held by the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	entries := make([]*cacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mu.Unlock()

	n := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.done {
			n++
		}
		e.mu.Unlock()
	}
	return n
}

func (c *Cache) entry(s cacheSlot) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[s]
	if !ok {
		e = &cacheEntry{}
		c.entries[s] = e
	}
	return e
}

// CacheKey addresses one scoped instance: the cache that holds it and the
// Key it was bound to.
type CacheKey struct {
	Cache *Cache
	Key   Key

	// slot tells apart scoped multibinding contributions.
	slot int
}

// Lookup returns the instance stored under k, if any.
func (k CacheKey) Lookup() (any, bool) {
	e := k.Cache.entry(cacheSlot{key: k.Key, slot: k.slot})
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.done
}

// getOrCreate returns the cached instance or calls create while holding
// the entry's lock, so concurrent callers construct at most once. Failed
// constructions are not stored.
func (k CacheKey) getOrCreate(create func() (any, error)) (value any, hit bool, err error) {
	e := k.Cache.entry(cacheSlot{key: k.Key, slot: k.slot})
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return e.value, true, nil
	}
	v, err := create()
	if err != nil {
		return nil, false, err
	}
	e.value, e.done = v, true
	return v, false, nil
}

// ScopeKeyFor returns where an instance of b is cached when b is resolved
// through c, the cache of the component that declares b. rc is the cache
// of the current top-level resolution. It returns false for Unscoped
// bindings, and a ScopeMismatchError when c does not own b's singleton
// scope.
func ScopeKeyFor(b *Binding, c, rc *Cache) (CacheKey, bool, error) {
	switch b.Scope.kind {
	case reusable:
		return CacheKey{Cache: rc, Key: b.Key, slot: b.slot}, true, nil
	case singleton:
		if c == nil || c.scope != b.Scope.name {
			owned := ""
			if c != nil {
				owned = c.scope
			}
			return CacheKey{}, false, &ScopeMismatchError{
				Key:           b.Key,
				Scope:         b.Scope,
				RegistryScope: owned,
			}
		}
		return CacheKey{Cache: c, Key: b.Key, slot: b.slot}, true, nil
	default:
		return CacheKey{}, false, nil
	}
}
