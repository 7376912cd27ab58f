package sqliterepo_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"photostream/photos"
	"photostream/photos/sqliterepo"
)

func openRepo(t *testing.T) *sqliterepo.SQLiteRepo {
	t.Helper()
	repo, err := sqliterepo.New(filepath.Join(t.TempDir(), "photos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestPhotoRoundTrip(t *testing.T) {
	repo := openRepo(t)

	photo := &photos.Photo{
		UserID:      "user-1",
		PhotoURL:    "https://img.example.com/sunset.jpg",
		Title:       "sunset",
		Description: "over the bay",
		Categories:  []string{"landscape"},
		Tags:        []string{"golden-hour", "sea"},
		User: photos.UserSummary{
			Username:   "johndoe",
			FullName:   "John Doe",
			ProfileImg: "default.jpg",
		},
	}
	require.NoError(t, repo.Insert(context.Background(), photo))
	require.NotEmpty(t, photo.ID)

	got, err := repo.GetByID(context.Background(), photo.ID)
	require.NoError(t, err)
	require.Equal(t, photo.Title, got.Title)
	require.Equal(t, photo.Categories, got.Categories)
	require.Equal(t, photo.Tags, got.Tags)
	require.Equal(t, "johndoe", got.User.Username)
}

func TestListOrderAndCount(t *testing.T) {
	repo := openRepo(t)
	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err := repo.Insert(context.Background(), &photos.Photo{
			UserID:    "user-1",
			PhotoURL:  fmt.Sprintf("https://img.example.com/%d.jpg", i),
			Title:     fmt.Sprintf("photo %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	list, err := repo.List(context.Background(), 0, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "photo 4", list[0].Title)
	require.Equal(t, "photo 2", list[2].Title)

	rest, err := repo.List(context.Background(), 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestDelete(t *testing.T) {
	repo := openRepo(t)

	photo := &photos.Photo{UserID: "user-1", PhotoURL: "https://x/1.jpg", Title: "x"}
	require.NoError(t, repo.Insert(context.Background(), photo))

	require.NoError(t, repo.Delete(context.Background(), photo.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), photo.ID), photos.ErrNotFound)

	_, err := repo.GetByID(context.Background(), photo.ID)
	require.ErrorIs(t, err, photos.ErrNotFound)
}

func TestCategories(t *testing.T) {
	repo := openRepo(t)

	category := &photos.Category{Name: "Street Photography", Slug: "street-photography"}
	require.NoError(t, repo.InsertCategory(context.Background(), category))

	dup := &photos.Category{Name: "street photography", Slug: "street-photography"}
	require.ErrorIs(t, repo.InsertCategory(context.Background(), dup), photos.ErrDuplicateCategory)

	list, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "street-photography", list[0].Slug)
}
