// Package branchapi fetches branch snapshots from the external branch
// service. The service is read-only and idempotent, so transient failures
// are retried with exponential backoff.
package branchapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Azarem/gaia-scribe/internal/debug"
	"github.com/Azarem/gaia-scribe/internal/snapshot"
)

// ErrBranchNotFound is returned when the service has no branch with the
// requested id.
var ErrBranchNotFound = errors.New("branch not found")

const (
	// DefaultBaseURL points at the hosted branch service.
	DefaultBaseURL = "https://api.gaiascribe.dev"
	// DefaultTimeout bounds one fetch attempt so a hung remote cannot
	// hang the whole import session.
	DefaultTimeout = 30 * time.Second

	retryMaxElapsed = 45 * time.Second
)

// Client fetches branch snapshots over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the branch service endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithTimeout overrides the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New returns a client for the branch service.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newFetchBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = retryMaxElapsed
	return bo
}

// FetchBranch retrieves one branch snapshot by id. Server-side and
// connection errors are retried; 4xx responses are permanent.
func (c *Client) FetchBranch(ctx context.Context, branchID string) (*snapshot.Branch, error) {
	if branchID == "" {
		return nil, fmt.Errorf("branch id is required")
	}

	var branch *snapshot.Branch
	op := func() error {
		b, err := c.fetchOnce(ctx, branchID)
		if err != nil {
			return err
		}
		branch = b
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(newFetchBackoff(), ctx)); err != nil {
		return nil, err
	}
	return branch, nil
}

func (c *Client) fetchOnce(ctx context.Context, branchID string) (*snapshot.Branch, error) {
	endpoint := fmt.Sprintf("%s/branches/%s", c.baseURL, url.PathEscape(branchID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		debug.Logf("branchapi: fetch %s: %v (will retry)", branchID, err)
		return nil, fmt.Errorf("fetching branch %s: %w", branchID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(fmt.Errorf("branch %s: %w", branchID, ErrBranchNotFound))
	case resp.StatusCode >= 500:
		debug.Logf("branchapi: fetch %s: HTTP %d (will retry)", branchID, resp.StatusCode)
		return nil, fmt.Errorf("fetching branch %s: HTTP %d", branchID, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("fetching branch %s: HTTP %d", branchID, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading branch %s: %w", branchID, err)
	}
	b, err := snapshot.Parse(data)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return b, nil
}
