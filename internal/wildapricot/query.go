package wildapricot

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/sethvargo/go-retry"
)

// fetchPaged walks a list endpoint with $top/$skip until a page comes back
// empty or shorter than the page size (the short page already proves it was
// the last one, so no extra round-trip is spent on an empty page).
func fetchPaged[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	pageSize := c.cfg.PageSize
	var items []T

	for skip := 0; ; skip += pageSize {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("$top", strconv.Itoa(pageSize))
		q.Set("$skip", strconv.Itoa(skip))

		var env listEnvelope[T]
		if err := c.get(ctx, path, q, &env); err != nil {
			return nil, err
		}

		items = append(items, env.Items...)
		if len(env.Items) < pageSize {
			return items, nil
		}
	}
}

// fetchQuery issues a list request that may either answer inline or hand back
// a ResultUrl for an asynchronous query job.
func fetchQuery[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var env listEnvelope[T]
	if err := c.get(ctx, path, query, &env); err != nil {
		return nil, err
	}
	if env.ResultURL != "" {
		return pollAsyncQuery[T](ctx, c, env.ResultURL)
	}
	return env.Items, nil
}

// errQueryPending marks a poll that found the job still running.
var errQueryPending = errors.New("async query still processing")

// pollAsyncQuery drives an asynchronous query job to a terminal state,
// polling its result handle on a fixed interval. Complete is the only
// success terminal; Failed and attempt exhaustion are distinct typed errors.
func pollAsyncQuery[T any](ctx context.Context, c *Client, resultURL string) ([]T, error) {
	var items []T
	polls := 0

	backoff := retry.WithMaxRetries(uint64(c.cfg.AsyncMaxAttempts-1), retry.NewConstant(c.cfg.AsyncPollInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		polls++

		var env listEnvelope[T]
		if err := c.get(ctx, resultURL, nil, &env); err != nil {
			return err
		}

		switch env.State {
		case queryStateComplete:
			items = env.Items
			return nil
		case queryStateFailed:
			return &AsyncQueryError{Details: env.ErrorDetails}
		default:
			// Pending/Processing: keep polling.
			return retry.RetryableError(errQueryPending)
		}
	})
	if err != nil {
		if errors.Is(err, errQueryPending) {
			return nil, &AsyncTimeoutError{Attempts: polls}
		}
		return nil, err
	}
	return items, nil
}
