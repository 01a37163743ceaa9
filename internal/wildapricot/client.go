package wildapricot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clubops/membersync/internal/metrics"
)

// Config holds the client's connection and policy settings.
type Config struct {
	APIKey            string        // platform API key
	AccountID         int64         // fallback account when the token grants none
	BaseURL           string        // e.g. https://api.wildapricot.org/v2.2
	AuthURL           string        // e.g. https://oauth.wildapricot.org/auth/token
	PageSize          int           // $top for paged list endpoints
	RequestTimeout    time.Duration // per-request HTTP timeout
	TokenExpiryBuffer time.Duration // refresh this long before the token expires
	MaxRetries        int           // retries after the initial attempt
	RetryBaseDelay    time.Duration // first backoff step
	RetryMaxDelay     time.Duration // backoff cap
	AsyncPollInterval time.Duration // delay between async query polls
	AsyncMaxAttempts  int           // poll budget before an async query times out
}

// Client is an authenticated Wild Apricot API client. It owns token
// acquisition, retry classification, pagination and async query polling.
// One Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	cfg        Config
	tokens     *tokenManager
}

// NewClient creates a platform API client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			// Keep bearer auth across platform redirects.
			if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
				req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
			}
			return nil
		},
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		cfg:        cfg,
		tokens:     newTokenManager(httpClient, cfg, logger),
	}
}

// AccessToken returns a valid access token, refreshing it if needed.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	tok, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	return tok.accessToken, nil
}

// RefreshToken forcibly invalidates the cached token and re-authenticates.
func (c *Client) RefreshToken(ctx context.Context) error {
	_, err := c.tokens.Refresh(ctx)
	return err
}

// ClearToken drops the cached token without network I/O.
func (c *Client) ClearToken() {
	c.tokens.Clear()
}

// accountID resolves the account the token is scoped to (cached with it).
func (c *Client) accountID(ctx context.Context) (int64, error) {
	tok, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return 0, err
	}
	return tok.accountID, nil
}

// accountPath builds /accounts/{id}/{resource}.
func (c *Client) accountPath(ctx context.Context, resource string) (string, error) {
	id, err := c.accountID(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/accounts/%d/%s", id, resource), nil
}

// get issues an authenticated GET through the retry wrapper and decodes the
// JSON response into result. path may be relative to BaseURL or absolute
// (async query result handles are absolute).
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.cfg.BaseURL + path
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	body, err := c.doWithRetry(ctx, http.MethodGet, target)
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// doWithRetry issues one authenticated request with classified retries:
//
//	401                 clear token, re-auth, one immediate reattempt
//	429                 honor Retry-After, else backoff; bounded by MaxRetries
//	5xx / transport     exponential backoff with jitter; bounded by MaxRetries
//	other 4xx           fail immediately
//
// The 401 reattempt does not consume a generic retry attempt.
func (c *Client) doWithRetry(ctx context.Context, method, target string) ([]byte, error) {
	var (
		retries     int
		reauthed    bool
		lastStatus  int
		lastErr     error
		rateLimited bool
	)

	for {
		tok, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}

		status, header, body, err := c.roundTrip(ctx, method, target, tok)

		switch {
		case err != nil:
			lastErr = err
			lastStatus = 0
			rateLimited = false

		case status >= 200 && status < 300:
			return body, nil

		case status == http.StatusUnauthorized:
			if !reauthed {
				reauthed = true
				c.logger.Debug("401 from platform, forcing token refresh", "url", target)
				if _, err := c.tokens.Refresh(ctx); err != nil {
					return nil, err
				}
				continue
			}
			return nil, &APIError{Status: status, Body: string(body)}

		case status == http.StatusTooManyRequests:
			lastStatus = status
			lastErr = nil
			rateLimited = true

		case status >= 500:
			lastStatus = status
			lastErr = nil
			rateLimited = false

		default:
			// Remaining 4xx are permanent by classification.
			return nil, &APIError{Status: status, Body: string(body)}
		}

		retries++
		if retries > c.cfg.MaxRetries {
			if rateLimited {
				return nil, &RateLimitError{Attempts: retries}
			}
			return nil, &RequestError{Status: lastStatus, Attempts: retries, Err: lastErr}
		}

		delay := c.backoffDelay(retries)
		if rateLimited {
			if after := parseRetryAfter(header); after > 0 {
				delay = after
			}
		}

		c.logger.Debug("retrying platform request",
			"url", target,
			"attempt", retries,
			"status", lastStatus,
			"delay", delay)

		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// roundTrip performs a single authenticated HTTP exchange.
func (c *Client) roundTrip(ctx context.Context, method, target string, tok *cachedToken) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", tok.tokenType+" "+tok.accessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues("error").Inc()
		return 0, nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.APIRequests.WithLabelValues(statusClass(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, resp.Header, body, nil
}

// backoffDelay computes the exponential backoff for the n-th retry with
// half-interval jitter, capped at RetryMaxDelay.
func (c *Client) backoffDelay(retry int) time.Duration {
	d := c.cfg.RetryBaseDelay << (retry - 1)
	if d > c.cfg.RetryMaxDelay || d <= 0 {
		d = c.cfg.RetryMaxDelay
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

// parseRetryAfter reads a Retry-After header given in seconds; zero when the
// header is absent or unusable.
func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// statusClass buckets an HTTP status for metrics.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
