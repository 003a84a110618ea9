// Package cache stores rendered exports so repeated exports of an unchanged
// model skip the Graphviz render.
//
// Two implementations are provided:
//
//   - [FileCache]: entries stored as files under a directory, for CLI use
//   - [NullCache]: never stores anything, used when caching is disabled
//
// Keys are built with [Key] or [RenderKey], which hash their parts so any
// input (such as a full DOT document) yields a fixed-length key:
//
//	key := cache.RenderKey("svg", dot)
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    return data, nil
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired or
	// unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
