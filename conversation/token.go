package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenCacheKey = "conversation:agent_token"

// TokenFunc fetches a fresh access token for the agent API and reports how
// long it stays valid.
type TokenFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// TokenManager owns the agent access token. It is constructed explicitly,
// refreshed explicitly, and caches the token in redis with a TTL slightly
// under the token's own lifetime, so no module-level token state exists.
type TokenManager struct {
	mu    sync.Mutex
	cache *redis.Client
	fetch TokenFunc
}

func NewTokenManager(cache *redis.Client, fetch TokenFunc) *TokenManager {
	return &TokenManager{cache: cache, fetch: fetch}
}

// Token returns the cached token, fetching a new one when the cache is
// empty or expired.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if m.cache != nil {
		token, err := m.cache.Get(ctx, tokenCacheKey).Result()
		if err == nil && token != "" {
			return token, nil
		}
	}
	return m.Refresh(ctx)
}

// Refresh fetches a new token unconditionally and replaces the cached one.
func (m *TokenManager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ttl, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}

	if m.cache != nil && ttl > 0 {
		// Expire the cache entry a minute early so a token is never served
		// on its last breath.
		cacheTTL := ttl - time.Minute
		if cacheTTL <= 0 {
			cacheTTL = ttl
		}
		m.cache.Set(ctx, tokenCacheKey, token, cacheTTL)
	}
	return token, nil
}

// Invalidate drops the cached token. The next Token call refreshes.
func (m *TokenManager) Invalidate(ctx context.Context) {
	if m.cache != nil {
		m.cache.Del(ctx, tokenCacheKey)
	}
}

// EnvTokenFunc exchanges the configured client credentials for an agent
// access token.
func EnvTokenFunc() TokenFunc {
	tokenURL := os.Getenv("AGENT_TOKEN_URL")
	clientID := os.Getenv("AGENT_CLIENT_ID")
	clientSecret := os.Getenv("AGENT_CLIENT_SECRET")

	return func(ctx context.Context) (string, time.Duration, error) {
		form := url.Values{}
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", clientID)
		form.Set("client_secret", clientSecret)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL,
			strings.NewReader(form.Encode()))
		if err != nil {
			return "", 0, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		res, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", 0, err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return "", 0, fmt.Errorf("conversation: token endpoint returned %d", res.StatusCode)
		}

		var out struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int    `json:"expires_in"`
		}
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			return "", 0, err
		}
		if out.AccessToken == "" {
			return "", 0, fmt.Errorf("conversation: token endpoint returned no token")
		}
		return out.AccessToken, time.Duration(out.ExpiresIn) * time.Second, nil
	}
}
