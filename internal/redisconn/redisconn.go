// Package redisconn dials the shared Redis instance used by the session
// store and the page cache.
package redisconn

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// New connects and pings within a short deadline, so a misconfigured
// address fails at startup instead of on the first request.
func New(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redisconn.New ping")
	}
	return client, nil
}
