// Package photos holds the photo and category models and the cached
// listing service that fronts the paginated photo feed.
package photos

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Repo lookups when no record matches.
var ErrNotFound = errors.New("photo not found")

// UserSummary is the uploader snapshot embedded in each photo, so the feed
// renders without a round-trip to the auth service.
type UserSummary struct {
	Username   string `json:"username"`
	FullName   string `json:"fullname"`
	ProfileImg string `json:"profile_img"`
}

type Photo struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	PhotoURL    string      `json:"photo_url"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	User        UserSummary `json:"user_summary"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Repo is the source-of-truth photo store. List returns newest first.
type Repo interface {
	Insert(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id string) (*Photo, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*Photo, error)
	Count(ctx context.Context) (int, error)
}

// CategoryRepo stores categories. InsertCategory returns
// ErrDuplicateCategory when the slug already exists.
type CategoryRepo interface {
	InsertCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]*Category, error)
}

// ErrDuplicateCategory is returned by CategoryRepo.Insert on a slug clash.
var ErrDuplicateCategory = errors.New("category already exists")
