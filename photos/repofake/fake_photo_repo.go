// Package repofake provides in-memory photo and category repos for tests.
package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"photostream/photos"
)

var (
	_ photos.Repo         = (*FakePhotoRepo)(nil)
	_ photos.CategoryRepo = (*FakePhotoRepo)(nil)
)

type FakePhotoRepo struct {
	lock       sync.RWMutex
	byID       map[string]*photos.Photo
	categories map[string]*photos.Category // keyed by slug
}

func NewFakePhotoRepo() *FakePhotoRepo {
	return &FakePhotoRepo{
		byID:       make(map[string]*photos.Photo),
		categories: make(map[string]*photos.Category),
	}
}

func (r *FakePhotoRepo) Insert(_ context.Context, p *photos.Photo) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	copied := *p
	r.byID[p.ID] = &copied
	return nil
}

func (r *FakePhotoRepo) GetByID(_ context.Context, id string) (*photos.Photo, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, photos.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *FakePhotoRepo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byID[id]; !ok {
		return photos.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *FakePhotoRepo) List(_ context.Context, offset, limit int) ([]*photos.Photo, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*photos.Photo, 0, len(r.byID))
	for _, p := range r.byID {
		copied := *p
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})

	if offset >= len(list) {
		return []*photos.Photo{}, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (r *FakePhotoRepo) Count(_ context.Context) (int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.byID), nil
}

func (r *FakePhotoRepo) InsertCategory(_ context.Context, c *photos.Category) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.categories[c.Slug]; ok {
		return photos.ErrDuplicateCategory
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	copied := *c
	r.categories[c.Slug] = &copied
	return nil
}

func (r *FakePhotoRepo) ListCategories(_ context.Context) ([]*photos.Category, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*photos.Category, 0, len(r.categories))
	for _, c := range r.categories {
		copied := *c
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
