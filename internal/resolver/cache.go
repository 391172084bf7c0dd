// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resolver

import (
	"sync"
	"time"
)

// entry is one resolved mapping.
type entry struct {
	value     string
	createdAt time.Time
}

// Cache maps a metadata manga id to the namespaced id of its content-source
// counterpart. Entries expire after a fixed TTL and are discarded lazily when
// read; there is no background sweep.
//
// Concurrent writers for the same key race and the last one wins.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. A nil clock uses [time.Now].
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the live value stored under key. An expired entry is removed
// and reported as missing.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(cached.createdAt) >= c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return cached.value, true
}

// Set stores value under key, resetting its creation time.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, createdAt: c.now()}
}

// Len reports the number of stored entries, expired ones included until read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// TTL returns the fixed expiry window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
