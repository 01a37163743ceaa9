package wildapricot

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

//go:generate go tool moq -out client_mock.go . ClientAPI

// ClientAPI is the client surface the sync orchestrator consumes.
type ClientAPI interface {
	// ListContacts fetches the complete contact set.
	ListContacts(ctx context.Context) ([]Contact, error)

	// ListContactsModifiedSince fetches contacts whose profile changed at or
	// after the given instant.
	ListContactsModifiedSince(ctx context.Context, since time.Time) ([]Contact, error)

	// ListEvents fetches the complete event set.
	ListEvents(ctx context.Context) ([]Event, error)

	// ListEventsStartingAfter fetches events starting at or after the given
	// instant. The platform exposes no event modification timestamps, so
	// incremental sync bounds events by start date instead.
	ListEventsStartingAfter(ctx context.Context, since time.Time) ([]Event, error)

	// ListEventRegistrations fetches all registrations of one event.
	ListEventRegistrations(ctx context.Context, eventID int64) ([]EventRegistration, error)

	// ListMembershipLevels fetches the account's membership level reference list.
	ListMembershipLevels(ctx context.Context) ([]MembershipLevel, error)

	// HealthCheck probes platform reachability with one cheap call.
	HealthCheck(ctx context.Context) Health
}

var _ ClientAPI = (*Client)(nil)

// ListContacts fetches all contacts. The contacts endpoint answers large
// requests with an async query handle, which fetchQuery polls to completion.
func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	path, err := c.accountPath(ctx, "contacts")
	if err != nil {
		return nil, err
	}
	return fetchQuery[Contact](ctx, c, path, nil)
}

// ListContactsModifiedSince fetches contacts whose profile changed since the
// given instant.
func (c *Client) ListContactsModifiedSince(ctx context.Context, since time.Time) ([]Contact, error) {
	path, err := c.accountPath(ctx, "contacts")
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("$filter", fmt.Sprintf("'Profile last updated' ge %s", since.UTC().Format(time.RFC3339)))
	return fetchQuery[Contact](ctx, c, path, q)
}

// ListEvents fetches all events page by page.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	path, err := c.accountPath(ctx, "events")
	if err != nil {
		return nil, err
	}
	return fetchPaged[Event](ctx, c, path, nil)
}

// ListEventsStartingAfter fetches events starting at or after since.
func (c *Client) ListEventsStartingAfter(ctx context.Context, since time.Time) ([]Event, error) {
	path, err := c.accountPath(ctx, "events")
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("$filter", fmt.Sprintf("StartDate ge %s", since.UTC().Format(time.RFC3339)))
	return fetchPaged[Event](ctx, c, path, q)
}

// ListEventRegistrations fetches all registrations of one event.
func (c *Client) ListEventRegistrations(ctx context.Context, eventID int64) ([]EventRegistration, error) {
	path, err := c.accountPath(ctx, "eventregistrations")
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("eventId", fmt.Sprintf("%d", eventID))
	return fetchPaged[EventRegistration](ctx, c, path, q)
}

// ListMembershipLevels fetches the membership level reference list.
func (c *Client) ListMembershipLevels(ctx context.Context) ([]MembershipLevel, error) {
	path, err := c.accountPath(ctx, "membershiplevels")
	if err != nil {
		return nil, err
	}
	var env listEnvelope[MembershipLevel]
	if err := c.get(ctx, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// HealthCheck performs one low-cost authenticated call and reports
// reachability without returning an error, for external monitoring.
func (c *Client) HealthCheck(ctx context.Context) Health {
	accountID, err := c.accountID(ctx)
	if err != nil {
		return Health{Error: err.Error()}
	}
	if _, err := c.ListMembershipLevels(ctx); err != nil {
		return Health{AccountID: accountID, Error: err.Error()}
	}
	return Health{OK: true, AccountID: accountID}
}
