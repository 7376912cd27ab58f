// Package sessions tracks outstanding refresh credentials. A refresh token
// is only honored while its record exists here; deleting the record is how
// logout revokes a session. Access tokens are never tracked; they stay
// valid until their own expiry.
package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Find when no record matches both the token
// value and the subject ID.
var ErrNotFound = errors.New("session not found")

// Session is the durable record of one issued refresh credential. Records
// are created at login, never mutated, and removed at logout or by the
// store's own TTL eviction. Multiple records per subject may coexist
// (multi-device).
type Session struct {
	SubjectID string    `json:"subject_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Repo is the session store. Implementations must support concurrent
// Put/Find/Delete from multiple service instances; single-record atomicity
// is sufficient since every session is independent.
type Repo interface {
	// Put inserts a record. Concurrent inserts for the same subject are
	// independent; there is no per-subject uniqueness constraint.
	Put(ctx context.Context, s Session) error

	// Find matches on BOTH token value and subject ID. A token value alone
	// is insufficient: a stolen token string paired with a forged subject
	// must not resolve.
	Find(ctx context.Context, token, subjectID string) (*Session, error)

	// Delete removes the record for a token value. Removing an absent
	// record is not an error.
	Delete(ctx context.Context, token string) error
}
