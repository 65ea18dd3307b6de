package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
)

// TokenSafetyMargin is the trailing part of a token's lifetime during which
// it is no longer handed out.
const TokenSafetyMargin = 5 * time.Minute

// AnonymousTokenFetcher fetches a fresh anonymous token.
type AnonymousTokenFetcher interface {
	FetchAnonymousToken(ctx context.Context) (models.Token, error)
}

// TokenCache holds a single anonymous token shared by all requests.
type TokenCache struct {
	fetcher AnonymousTokenFetcher
	now     func() time.Time
	margin  time.Duration
	current atomic.Pointer[models.Token]
}

// NewTokenCache creates an empty cache. now defaults to [time.Now].
func NewTokenCache(fetcher AnonymousTokenFetcher, now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{
		fetcher: fetcher,
		now:     now,
		margin:  TokenSafetyMargin,
	}
}

// Token returns the cached token while it is outside its safety margin and
// fetches a replacement otherwise. Fetch failures are returned as is.
func (c *TokenCache) Token(ctx context.Context) (models.Token, error) {
	if tok := c.current.Load(); tok != nil && tok.ValidAt(c.now(), c.margin) {
		return *tok, nil
	}

	tok, err := c.fetcher.FetchAnonymousToken(ctx)
	if err != nil {
		return models.Token{}, err
	}

	c.current.Store(&tok)
	return tok, nil
}

// Cached returns the stored token without refreshing it.
func (c *TokenCache) Cached() (models.Token, bool) {
	tok := c.current.Load()
	if tok == nil {
		return models.Token{}, false
	}
	return *tok, true
}

// Invalidate drops the cached token so the next call refreshes.
func (c *TokenCache) Invalidate() {
	c.current.Store(nil)
}

// anonymousTokenResponse is the anonymous token endpoint payload.
type anonymousTokenResponse struct {
	ClientID                         string `json:"clientId"`
	AccessToken                      string `json:"accessToken"`
	AccessTokenExpirationTimestampMs int64  `json:"accessTokenExpirationTimestampMs"`
	IsAnonymous                      bool   `json:"isAnonymous"`
}

// TokenEndpoint fetches anonymous tokens with a plain GET.
type TokenEndpoint struct {
	url        string
	httpClient *http.Client
}

// NewTokenEndpoint creates a fetcher for the given endpoint URL.
func NewTokenEndpoint(url string, client *http.Client) *TokenEndpoint {
	return &TokenEndpoint{url: url, httpClient: orDefaultClient(client)}
}

// FetchAnonymousToken implements [AnonymousTokenFetcher].
func (e *TokenEndpoint) FetchAnonymousToken(ctx context.Context) (models.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return models.Token{}, &shared.UpstreamAuthError{Endpoint: e.url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return models.Token{}, &shared.UpstreamAuthError{Endpoint: e.url, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Token{}, &shared.UpstreamAuthError{Endpoint: e.url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Token{}, &shared.UpstreamAuthError{Endpoint: e.url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var data anonymousTokenResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Token{}, &shared.UpstreamAuthError{Endpoint: e.url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if data.AccessToken == "" {
		return models.Token{}, &shared.UpstreamAuthError{Endpoint: e.url, Err: fmt.Errorf("response missing accessToken")}
	}

	return models.Token{
		AccessToken: data.AccessToken,
		ExpiresAt:   time.UnixMilli(data.AccessTokenExpirationTimestampMs),
	}, nil
}
