// Package redisrepo is the Redis-backed session store. Each refresh record
// is a single key with a TTL equal to the record's remaining lifetime, so
// Redis eviction is the passive-expiry mechanism — no reaper of our own.
package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"photostream/sessions"
)

const keyPrefix = "refresh:"

var _ sessions.Repo = (*RedisRepo)(nil)

type RedisRepo struct {
	client *redis.Client
}

func New(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

func key(token string) string { return keyPrefix + token }

func (r *RedisRepo) Put(ctx context.Context, s sessions.Session) error {
	if s.Token == "" || s.SubjectID == "" {
		return errors.New("RedisRepo.Put: missing token or subject_id")
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("RedisRepo.Put: expires_at must be in the future")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "RedisRepo.Put marshal")
	}

	if err := r.client.Set(ctx, key(s.Token), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "RedisRepo.Put set")
	}
	return nil
}

func (r *RedisRepo) Find(ctx context.Context, token, subjectID string) (*sessions.Session, error) {
	val, err := r.client.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return nil, sessions.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "RedisRepo.Find get")
	}

	var s sessions.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, errors.Wrap(err, "RedisRepo.Find unmarshal")
	}

	// The subject must match; a record keyed by a stolen token string does
	// not resolve for a different subject.
	if s.SubjectID != subjectID {
		return nil, sessions.ErrNotFound
	}
	return &s, nil
}

func (r *RedisRepo) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, key(token)).Err(); err != nil {
		return errors.Wrap(err, "RedisRepo.Delete")
	}
	return nil
}
