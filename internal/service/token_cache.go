package service

import (
	"context"
	"time"

	"jadwal-backend/internal/store"
)

// expirySlack shortens the cached lifetime so a token is never presented
// right at its expiry edge.
const expirySlack = time.Minute

const tokenCacheKey = "sync:bearer-token"

// TokenCache keeps the orchestrator's bearer token in the KV store so it is
// reused across invocations until expiry. A concurrent refresh race is
// benign: worst case, one extra login call.
type TokenCache struct {
	kv store.KV
}

func NewTokenCache(kv store.KV) *TokenCache {
	return &TokenCache{kv: kv}
}

// Get returns the cached token, or ok=false when missing/expired.
func (c *TokenCache) Get(ctx context.Context) (string, bool) {
	token, err := c.kv.Get(ctx, tokenCacheKey)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Put stores a token for its lifetime minus slack.
func (c *TokenCache) Put(ctx context.Context, token string, expiresIn time.Duration) error {
	ttl := expiresIn - expirySlack
	if ttl <= 0 {
		ttl = expiresIn
	}
	return c.kv.Set(ctx, tokenCacheKey, token, ttl)
}

// Clear drops the cached token, forcing re-authentication next time.
func (c *TokenCache) Clear(ctx context.Context) error {
	return c.kv.Del(ctx, tokenCacheKey)
}
