// Package repofake provides an in-memory users.Repo for tests.
package repofake

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"photostream/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	lock      sync.RWMutex
	byID      map[string]*users.User
	emailIDs  map[string]string
	usernames map[string]string
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byID:      make(map[string]*users.User),
		emailIDs:  make(map[string]string),
		usernames: make(map[string]string),
	}
}

func (r *FakeUserRepo) Insert(_ context.Context, u *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	copied := *u
	r.byID[u.ID] = &copied
	r.emailIDs[u.Email] = u.ID
	r.usernames[u.Username] = u.ID
	return nil
}

func (r *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.emailIDs[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *FakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.usernames[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}
