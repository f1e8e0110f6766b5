package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogapi/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix    = "user:%d"
	PostKeyPrefix    = "post:%d"
	CommentKeyPrefix = "comment:%d"
)

const (
	UserTTL    = 5 * time.Minute
	PostTTL    = 30 * time.Minute
	CommentTTL = 10 * time.Minute
)

var enabled = true

// SetEnabled toggles cache lookups globally (CACHE_ENABLED).
func SetEnabled(v bool) {
	enabled = v
}

func active() bool {
	return enabled && client != nil
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommentKey(commentID uint) string {
	return fmt.Sprintf(CommentKeyPrefix, commentID)
}

// GetJSON loads key into dest. It reports false on a miss or when caching is off.
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !active() {
		return false, nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key with the given TTL.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !active() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// Aside implements cache-aside: serve dest from key when present, else call load and
// populate the cache. Redis failures are logged and never fail the request.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, entity string, load func() error) error {
	hit, err := GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if hit {
		middleware.CacheLookups.WithLabelValues(entity, "hit").Inc()
		return nil
	}
	if active() {
		middleware.CacheLookups.WithLabelValues(entity, "miss").Inc()
	}

	if err := load(); err != nil {
		return err
	}

	if err := SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateComment(ctx context.Context, commentID uint) {
	Invalidate(ctx, CommentKey(commentID))
}
