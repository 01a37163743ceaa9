package wildapricot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/clubops/membersync/internal/metrics"
)

// tokenManager owns the cached OAuth token. Concurrent callers that find the
// cache empty or expiring are coalesced into a single outstanding refresh via
// singleflight, so the auth endpoint sees at most one request at a time.
type tokenManager struct {
	httpClient      *http.Client
	logger          *slog.Logger
	authURL         string
	apiKey          string
	fallbackAccount int64
	expiryBuffer    time.Duration

	mu      sync.Mutex
	group   singleflight.Group
	current *cachedToken
}

// cachedToken is an acquired access token plus the account it is scoped to.
type cachedToken struct {
	accessToken string
	tokenType   string
	accountID   int64
	expiresAt   time.Time
}

func newTokenManager(httpClient *http.Client, cfg Config, logger *slog.Logger) *tokenManager {
	return &tokenManager{
		httpClient:      httpClient,
		logger:          logger,
		authURL:         cfg.AuthURL,
		apiKey:          cfg.APIKey,
		fallbackAccount: cfg.AccountID,
		expiryBuffer:    cfg.TokenExpiryBuffer,
	}
}

// AccessToken returns the cached token when it is still comfortably inside
// its lifetime, otherwise refreshes it. No network I/O happens on the cached
// path.
func (m *tokenManager) AccessToken(ctx context.Context) (*cachedToken, error) {
	if tok := m.cached(); tok != nil {
		return tok, nil
	}

	v, err, _ := m.group.Do("token", func() (any, error) {
		// A refresh may have completed while this caller queued up.
		if tok := m.cached(); tok != nil {
			return tok, nil
		}

		tok, err := m.authenticate(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.current = tok
		m.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cachedToken), nil
}

// Refresh invalidates the cache and re-authenticates.
func (m *tokenManager) Refresh(ctx context.Context) (*cachedToken, error) {
	m.Clear()
	return m.AccessToken(ctx)
}

// Clear drops the cached token without network I/O.
func (m *tokenManager) Clear() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// cached returns the current token if it stays valid past the expiry buffer.
func (m *tokenManager) cached() *cachedToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && time.Now().Add(m.expiryBuffer).Before(m.current.expiresAt) {
		return m.current
	}
	return nil
}

// authenticate performs the client_credentials grant against the auth
// endpoint with HTTP Basic APIKEY credentials.
func (m *tokenManager) authenticate(ctx context.Context) (*cachedToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte("APIKEY:" + m.apiKey))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &TokenError{Body: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TokenError{Status: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TokenError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &TokenError{Status: resp.StatusCode, Body: fmt.Sprintf("malformed token response: %v", err)}
	}

	accountID := m.fallbackAccount
	if len(tr.Permissions) > 0 && tr.Permissions[0].AccountID != 0 {
		accountID = tr.Permissions[0].AccountID
	}

	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	metrics.TokenRefreshes.Inc()
	m.logger.Debug("acquired access token",
		"account_id", accountID,
		"expires_in", tr.ExpiresIn)

	return &cachedToken{
		accessToken: tr.AccessToken,
		tokenType:   tokenType,
		accountID:   accountID,
		expiresAt:   time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
