// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of public JSON responses. A hit
// skips the database entirely; any write through the admin API clears the
// whole cache since a single article can appear on many pages.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached responses.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a response stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages cached public responses in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Errors are logged and reported as
// a miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores a response body with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached response by scanning for the prefix.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache cleared", "deleted", deleted)
	}
}

// Key builds the cache key for a request path and query. Query parameters
// are re-encoded in sorted order so equivalent URLs share an entry.
func Key(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
