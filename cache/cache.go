// Package cache defines the key/value page cache that fronts paginated
// resource listings. Cache keys are built here, in one place, so the
// listing prefix used for bulk invalidation cannot drift from the keys the
// read path writes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by GetPage when the key holds no live snapshot.
var ErrMiss = errors.New("cache miss")

// ListingPrefix covers every cached photo-listing page across all page
// numbers and sizes. InvalidateAll over this prefix is the write path's
// consistency mechanism: correctness over efficiency, since tracking which
// pages a new item would land on is not worth the bookkeeping.
const ListingPrefix = "photos:page:"

// PageKey derives the deterministic cache key for one listing page.
func PageKey(page, limit int) string {
	return fmt.Sprintf("%s%d:limit:%d", ListingPrefix, page, limit)
}

// Pages is a shared, external key/value cache reachable by every photo
// service instance.
type Pages interface {
	// GetPage returns the snapshot stored under key, or ErrMiss.
	GetPage(ctx context.Context, key string) ([]byte, error)

	// PutPage stores a snapshot under key for ttl.
	PutPage(ctx context.Context, key string, snapshot []byte, ttl time.Duration) error

	// InvalidateAll removes every key sharing prefix. It must be safe under
	// concurrent writers and idempotent: invalidating nothing is not an
	// error.
	InvalidateAll(ctx context.Context, prefix string) error
}
