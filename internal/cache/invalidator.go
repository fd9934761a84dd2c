// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// invalidator.go clears storefront cache namespaces after catalog writes.
// Keys are namespaced as "<namespace>:<anything>"; a write that touches a
// namespace deletes every key under its prefix. Invalidation is best-effort:
// it runs on a background goroutine with its own timeout and never reports
// back to the write that triggered it.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// invalidateTimeout bounds one invalidation run, detached from the request.
const invalidateTimeout = 10 * time.Second

// Invalidator deletes cached entries by namespace prefix. A nil client makes
// every call a no-op, so the API runs without a cache backend.
type Invalidator struct {
	client *redis.Client
}

// NewInvalidator creates an Invalidator over the given Valkey client.
// client may be nil.
func NewInvalidator(client *redis.Client) *Invalidator {
	return &Invalidator{client: client}
}

// Invalidate clears all keys under each namespace prefix. Fire-and-forget:
// the caller's transaction has already committed and must not wait on, or
// fail because of, the cache.
func (inv *Invalidator) Invalidate(namespaces ...string) {
	if inv == nil || inv.client == nil || len(namespaces) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		for _, ns := range namespaces {
			inv.clearPrefix(ctx, ns+":")
		}
	}()
}

// clearPrefix scans and deletes every key under one prefix.
func (inv *Invalidator) clearPrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := inv.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("cache scan error", "prefix", prefix, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := inv.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("cache bulk delete error", "prefix", prefix, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("cache namespace cleared", "prefix", prefix, "deleted", deleted)
	}
}
