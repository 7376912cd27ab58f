package photos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"photostream/cache"
)

const defaultPageTTL = time.Hour

// Page is the cached snapshot of one listing page.
type Page struct {
	Photos []*Photo `json:"photos"`
	Count  int      `json:"count"`
	Total  int      `json:"total"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
}

// Listing serves the paginated photo feed through a read-through page
// cache. Reads populate the cache on miss; writes invalidate every cached
// page after committing. A read racing between a commit and its
// invalidation can repopulate a pre-write snapshot for up to the page TTL —
// an accepted, bounded staleness window for this domain.
type Listing struct {
	repo    Repo
	pages   cache.Pages
	pageTTL time.Duration
}

// ListingOption modifies a Listing at construction time.
type ListingOption func(*Listing)

// WithPageTTL overrides the snapshot lifetime (default one hour).
func WithPageTTL(ttl time.Duration) ListingOption {
	return func(l *Listing) {
		l.pageTTL = ttl
	}
}

func NewListing(repo Repo, pages cache.Pages, options ...ListingOption) (*Listing, error) {
	if repo == nil {
		return nil, errors.New("NewListing: photo repo is required")
	}
	if pages == nil {
		return nil, errors.New("NewListing: page cache is required")
	}

	l := &Listing{
		repo:    repo,
		pages:   pages,
		pageTTL: defaultPageTTL,
	}
	for _, opt := range options {
		opt(l)
	}
	return l, nil
}

// Page returns one listing page, serving from the cache when possible. The
// returned bool reports whether the page came from the cache.
func (l *Listing) Page(ctx context.Context, page, limit int) (*Page, bool, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	key := cache.PageKey(page, limit)
	if snapshot, err := l.pages.GetPage(ctx, key); err == nil {
		var cached Page
		if err := json.Unmarshal(snapshot, &cached); err == nil {
			return &cached, true, nil
		}
		// An undecodable snapshot is treated as a miss and overwritten below.
		log.Warn().Str("key", key).Msg("dropping undecodable cached page")
	} else if !errors.Is(err, cache.ErrMiss) {
		// A cache outage degrades to uncached reads rather than failing them.
		log.Error().Err(err).Str("key", key).Msg("page cache read failed")
	}

	photoList, err := l.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, false, errors.Wrap(err, "Listing.Page list")
	}
	total, err := l.repo.Count(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, "Listing.Page count")
	}

	result := &Page{
		Photos: photoList,
		Count:  len(photoList),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}

	snapshot, err := json.Marshal(result)
	if err != nil {
		return nil, false, errors.Wrap(err, "Listing.Page marshal snapshot")
	}
	if err := l.pages.PutPage(ctx, key, snapshot, l.pageTTL); err != nil {
		log.Error().Err(err).Str("key", key).Msg("page cache write failed")
	}

	return result, false, nil
}

// Get returns one photo by ID, bypassing the page cache.
func (l *Listing) Get(ctx context.Context, id string) (*Photo, error) {
	return l.repo.GetByID(ctx, id)
}

// Create commits the photo, then drops every cached listing page — all page
// numbers and sizes, not just the page the new photo would land on.
func (l *Listing) Create(ctx context.Context, p *Photo) error {
	if err := l.repo.Insert(ctx, p); err != nil {
		return errors.Wrap(err, "Listing.Create insert")
	}
	if err := l.pages.InvalidateAll(ctx, cache.ListingPrefix); err != nil {
		return errors.Wrap(err, "Listing.Create invalidate")
	}
	return nil
}

// Delete removes the photo, then drops every cached listing page.
func (l *Listing) Delete(ctx context.Context, id string) error {
	if err := l.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "Listing.Delete")
	}
	if err := l.pages.InvalidateAll(ctx, cache.ListingPrefix); err != nil {
		return errors.Wrap(err, "Listing.Delete invalidate")
	}
	return nil
}
