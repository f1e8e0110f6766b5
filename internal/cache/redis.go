// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"blogapi/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// client backs the cache-aside helpers. Nil turns them into no-ops.
var client *redis.Client

// errorCounter feeds failed Redis calls into the redis_errors_total metric.
// A cache miss (redis.Nil) is not a failure.
type errorCounter struct{}

func countFailure(op string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(op).Inc()
	}
}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		countFailure("dial", err)
		return conn, err
	}
}

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countFailure(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countFailure("pipeline", err)
		return err
	}
}

// NewClient accepts host:port or a redis:// URL. The client is instrumented
// but not yet connected.
func NewClient(addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opts, err = redis.ParseURL(addr); err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(errorCounter{})
	return rdb, nil
}

// Connect builds a client and pings it. On failure nothing is left open.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb, err := NewClient(addr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", rdb.Options().Addr, err)
	}
	return rdb, nil
}

// SetClient points the cache helpers at rdb. Nil disables caching.
func SetClient(rdb *redis.Client) {
	client = rdb
}
