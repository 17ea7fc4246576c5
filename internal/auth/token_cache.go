package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// tokenCachePrefix namespaces cached claims in Redis.
	tokenCachePrefix = "token_claims:"
	// maxCacheTTL caps how long verified claims stay cached. Entries also
	// never outlive the token's own expiry.
	maxCacheTTL = 15 * time.Minute
)

// CachedVerifier fronts another TokenVerifier with a Redis cache so repeated
// requests with the same bearer token skip signature verification. A nil
// client degrades to plain verification.
type CachedVerifier struct {
	Client   *redis.Client
	Verifier TokenVerifier
}

func NewCachedVerifier(client *redis.Client, verifier TokenVerifier) *CachedVerifier {
	return &CachedVerifier{Client: client, Verifier: verifier}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenCachePrefix + hex.EncodeToString(sum[:])
}

func (c *CachedVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if c.Client == nil {
		return c.Verifier.Verify(ctx, token)
	}

	key := cacheKey(token)

	cached, err := c.Client.Get(ctx, key).Result()
	if err == nil {
		var claims Claims
		if err := json.Unmarshal([]byte(cached), &claims); err == nil {
			return &claims, nil
		}
		// Unreadable entry, drop it and verify from scratch.
		c.Client.Del(ctx, key)
	} else if err != redis.Nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	claims, err := c.Verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claims: %w", err)
	}

	// The cache entry must expire with the token, or an expired token would
	// keep verifying until the entry aged out.
	ttl := maxCacheTTL
	if !claims.ExpiresAt.IsZero() {
		if until := time.Until(claims.ExpiresAt); until < ttl {
			ttl = until
		}
	}
	if ttl > 0 {
		// Best effort: a cache write failure must not fail the request.
		c.Client.Set(ctx, key, payload, ttl)
	}

	return claims, nil
}
