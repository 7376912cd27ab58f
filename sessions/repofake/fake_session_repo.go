// Package repofake provides an in-memory sessions.Repo for tests. Expiry is
// enforced lazily on Find, standing in for the real store's TTL eviction.
package repofake

import (
	"context"
	"sync"
	"time"

	"photostream/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	lock    sync.RWMutex
	byToken map[string]sessions.Session

	// NowFunc can be overridden to advance the clock in tests.
	NowFunc func() time.Time
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		byToken: make(map[string]sessions.Session),
		NowFunc: time.Now,
	}
}

func (r *FakeSessionRepo) Put(_ context.Context, s sessions.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.byToken[s.Token] = s
	return nil
}

func (r *FakeSessionRepo) Find(_ context.Context, token, subjectID string) (*sessions.Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	s, ok := r.byToken[token]
	if !ok {
		return nil, sessions.ErrNotFound
	}
	if r.NowFunc().After(s.ExpiresAt) {
		delete(r.byToken, token)
		return nil, sessions.ErrNotFound
	}
	if s.SubjectID != subjectID {
		return nil, sessions.ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (r *FakeSessionRepo) Delete(_ context.Context, token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.byToken, token)
	return nil
}

// Len reports the number of live records, for test assertions.
func (r *FakeSessionRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.byToken)
}
