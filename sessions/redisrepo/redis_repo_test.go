package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"photostream/sessions"
	"photostream/sessions/redisrepo"
)

// Put validates the record before touching the store, so the rejection
// paths need no live Redis.
func TestPutRejectsInvalidRecords(t *testing.T) {
	repo := redisrepo.New(nil)
	now := time.Now()

	err := repo.Put(context.Background(), sessions.Session{
		SubjectID: "user-1",
		ExpiresAt: now.Add(time.Hour),
	})
	require.Error(t, err)

	err = repo.Put(context.Background(), sessions.Session{
		Token:     "token-1",
		ExpiresAt: now.Add(time.Hour),
	})
	require.Error(t, err)

	err = repo.Put(context.Background(), sessions.Session{
		SubjectID: "user-1",
		Token:     "token-1",
		ExpiresAt: now.Add(-time.Minute),
	})
	require.Error(t, err)
}
