// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// readCache keeps recent ReadFile payloads keyed by file path.
// A nil cache is valid and stores nothing.
type readCache struct {
	entries *lru.Cache[string, []byte]
}

// newReadCache creates a cache holding up to size payloads.
func newReadCache(size int) (*readCache, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create read cache: %w", err)
	}

	return &readCache{entries: entries}, nil
}

// get returns a private copy of the cached payload.
func (c *readCache) get(path string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	data, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}

	return append([]byte(nil), data...), true
}

// put stores a private copy of data.
func (c *readCache) put(path string, data []byte) {
	if c == nil {
		return
	}

	c.entries.Add(path, append([]byte(nil), data...))
}

// remove drops path after its payload changed on disk.
func (c *readCache) remove(path string) {
	if c == nil {
		return
	}

	c.entries.Remove(path)
}

// purge drops every cached payload.
func (c *readCache) purge() {
	if c == nil {
		return
	}

	c.entries.Purge()
}

// len returns number of cached payloads.
func (c *readCache) len() int {
	if c == nil {
		return 0
	}

	return c.entries.Len()
}
