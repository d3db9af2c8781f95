package dynamics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/config"
	"github.com/CFITire/nexus-sub001/internal/core/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// expiryBuffer is subtracted from the upstream-reported token lifetime so a
// token is refreshed before the ERP would reject it mid-request.
const expiryBuffer = 300 * time.Second

// minLifetime floors the effective lifetime so pathologically short-lived
// tokens do not force an exchange on every request.
const minLifetime = time.Minute

// accessToken is the single cache slot. It is replaced wholesale on refresh;
// readers never observe a partially written token.
type accessToken struct {
	value     string
	expiresAt time.Time
}

// TokenCache obtains and caches an OAuth2 access token for the upstream ERP
// using the client-credentials grant. One instance is owned by each Client;
// there is no package-level state.
type TokenCache struct {
	cfg    config.ERPConfig
	client *http.Client
	now    func() time.Time

	mu    sync.RWMutex
	token accessToken

	// refresh collapses concurrent exchanges for an expired token into one
	// upstream call.
	refresh singleflight.Group
}

// NewTokenCache creates a TokenCache using the given HTTP client.
func NewTokenCache(cfg config.ERPConfig, client *http.Client) *TokenCache {
	return &TokenCache{
		cfg:    cfg,
		client: client,
		now:    time.Now,
	}
}

// Token returns a valid access token, performing a client-credentials
// exchange only when the cached token is missing or expired.
func (t *TokenCache) Token(ctx context.Context) (string, error) {
	t.mu.RLock()
	cached := t.token
	t.mu.RUnlock()

	if cached.value != "" && t.now().Before(cached.expiresAt) {
		return cached.value, nil
	}

	v, err, _ := t.refresh.Do("token", func() (interface{}, error) {
		// A concurrent caller may have refreshed while we waited for the group.
		t.mu.RLock()
		cached := t.token
		t.mu.RUnlock()
		if cached.value != "" && t.now().Before(cached.expiresAt) {
			return cached.value, nil
		}

		fresh, err := t.exchange(ctx)
		if err != nil {
			return "", err
		}

		t.mu.Lock()
		t.token = fresh
		t.mu.Unlock()

		return fresh.value, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// tokenURL returns the identity provider token endpoint.
func (t *TokenCache) tokenURL() string {
	if t.cfg.TokenURL != "" {
		return t.cfg.TokenURL
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", t.cfg.TenantID)
}

// exchange performs the client-credentials grant. It is never retried: a
// rejected exchange repeated without backoff risks locking out the principal.
func (t *TokenCache) exchange(ctx context.Context) (accessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", t.cfg.ClientID)
	form.Set("client_secret", t.cfg.ClientSecret)
	form.Set("scope", t.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return accessToken{}, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return accessToken{}, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return accessToken{}, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return accessToken{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return accessToken{}, &AuthError{StatusCode: resp.StatusCode, Body: "response contained no access_token"}
	}

	lifetime := time.Duration(payload.ExpiresIn)*time.Second - expiryBuffer
	if lifetime < minLifetime {
		lifetime = minLifetime
	}

	token := accessToken{
		value:     payload.AccessToken,
		expiresAt: t.now().Add(lifetime),
	}

	logger.Get().Debug("ERP access token refreshed",
		zap.Time("expires_at", token.expiresAt),
	)

	return token, nil
}
