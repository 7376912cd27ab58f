package photos_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"photostream/cache"
	"photostream/cache/cachefake"
	"photostream/photos"
	"photostream/photos/repofake"
)

func seedPhotos(t *testing.T, repo *repofake.FakePhotoRepo, n int) {
	t.Helper()
	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := repo.Insert(context.Background(), &photos.Photo{
			Title:     fmt.Sprintf("photo %d", i),
			PhotoURL:  fmt.Sprintf("https://img.example.com/%d.jpg", i),
			UserID:    "user-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestPagePopulatesCacheOnMiss(t *testing.T) {
	repo := repofake.NewFakePhotoRepo()
	pages := cachefake.NewFakeCache()
	seedPhotos(t, repo, 15)

	listing, err := photos.NewListing(repo, pages)
	require.NoError(t, err)

	page, cached, err := listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	require.False(t, cached)
	require.Len(t, page.Photos, 10)
	require.Equal(t, 15, page.Total)
	require.Equal(t, 1, pages.Len())

	// Newest first.
	require.Equal(t, "photo 14", page.Photos[0].Title)

	again, cached, err := listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	require.True(t, cached)
	require.Equal(t, page.Photos[0].ID, again.Photos[0].ID)
}

func TestPageClampsArguments(t *testing.T) {
	repo := repofake.NewFakePhotoRepo()
	pages := cachefake.NewFakeCache()
	seedPhotos(t, repo, 5)

	listing, err := photos.NewListing(repo, pages)
	require.NoError(t, err)

	page, _, err := listing.Page(context.Background(), -3, 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.True(t, page.Limit > 0)
}

func TestPageSurvivesCacheOutage(t *testing.T) {
	repo := repofake.NewFakePhotoRepo()
	pages := cachefake.NewFakeCache()
	pages.FailWith = fmt.Errorf("connection refused")
	seedPhotos(t, repo, 3)

	listing, err := photos.NewListing(repo, pages)
	require.NoError(t, err)

	// Cache errors degrade to an uncached read, never a request failure.
	page, cached, err := listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	require.False(t, cached)
	require.Len(t, page.Photos, 3)
}

func TestCreateInvalidatesAllPages(t *testing.T) {
	repo := repofake.NewFakePhotoRepo()
	pages := cachefake.NewFakeCache()
	seedPhotos(t, repo, 15)

	listing, err := photos.NewListing(repo, pages)
	require.NoError(t, err)

	_, _, err = listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	_, _, err = listing.Page(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Equal(t, 2, pages.Len())

	err = listing.Create(context.Background(), &photos.Photo{
		Title:    "fresh",
		PhotoURL: "https://img.example.com/fresh.jpg",
		UserID:   "user-1",
	})
	require.NoError(t, err)
	require.Equal(t, 0, pages.Len())

	// The next read reflects the write on every page.
	page, cached, err := listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, 16, page.Total)
}

func TestDeleteInvalidatesAllPages(t *testing.T) {
	repo := repofake.NewFakePhotoRepo()
	pages := cachefake.NewFakeCache()
	seedPhotos(t, repo, 5)

	listing, err := photos.NewListing(repo, pages)
	require.NoError(t, err)

	page, _, err := listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, pages.Len())

	err = listing.Delete(context.Background(), page.Photos[0].ID)
	require.NoError(t, err)
	require.Equal(t, 0, pages.Len())

	err = listing.Delete(context.Background(), "missing-id")
	require.ErrorIs(t, err, photos.ErrNotFound)
}

func TestCachedPagesExpire(t *testing.T) {
	repo := repofake.NewFakePhotoRepo()
	pages := cachefake.NewFakeCache()
	seedPhotos(t, repo, 3)

	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	pages.NowFunc = func() time.Time { return now }

	listing, err := photos.NewListing(repo, pages, photos.WithPageTTL(time.Hour))
	require.NoError(t, err)

	_, cached, err := listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	require.False(t, cached)

	now = now.Add(61 * time.Minute)

	_, cached, err = listing.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	require.False(t, cached)
}

func TestPageKey(t *testing.T) {
	require.Equal(t, "photos:page:2:limit:10", cache.PageKey(2, 10))
}
