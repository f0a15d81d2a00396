// Package gplay fetches app-store reviews from a reviews API endpoint.
package gplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
	"github.com/revlens/revlens/pkg/revlens/review"
)

// DefaultPageSize is the per-request review count; the endpoint caps pages
// at this size regardless of what is asked for.
const DefaultPageSize = 100

// Client pages through a reviews endpoint. The endpoint returns newest-first
// pages of raw review records plus a continuation token:
//
//	GET {base}/apps/{id}/reviews?count=100&lang=en&token=...
//	→ {"reviews": [...], "nextToken": "..."}
type Client struct {
	BaseURL  string
	Lang     string
	Country  string
	PageSize int

	HTTPClient *http.Client
}

type reviewsPage struct {
	Reviews   []review.Raw `json:"reviews"`
	NextToken string       `json:"nextToken"`
}

// Fetch returns up to count raw reviews for an app, newest first. Any
// transport or decode failure wraps ErrFetch; an unknown app is ErrNotFound.
func (c *Client) Fetch(ctx context.Context, appID string, count int) ([]review.Raw, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("%w: gplay base URL required", internalerr.ErrInvalidConfig)
	}
	if count <= 0 {
		count = DefaultPageSize
	}

	var (
		out   []review.Raw
		token string
	)
	for len(out) < count {
		page, err := c.fetchPage(ctx, appID, min(count-len(out), c.pageSize()), token)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Reviews...)
		if page.NextToken == "" || len(page.Reviews) == 0 {
			break
		}
		token = page.NextToken
	}

	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, appID string, count int, token string) (reviewsPage, error) {
	u, err := url.Parse(fmt.Sprintf("%s/apps/%s/reviews", c.BaseURL, url.PathEscape(appID)))
	if err != nil {
		return reviewsPage{}, fmt.Errorf("%w: %v", internalerr.ErrFetch, err)
	}
	q := u.Query()
	q.Set("count", strconv.Itoa(count))
	if c.Lang != "" {
		q.Set("lang", c.Lang)
	}
	if c.Country != "" {
		q.Set("country", c.Country)
	}
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return reviewsPage{}, fmt.Errorf("%w: %v", internalerr.ErrFetch, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return reviewsPage{}, fmt.Errorf("%w: %s: %v", internalerr.ErrFetch, appID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return reviewsPage{}, fmt.Errorf("%w: app %s", internalerr.ErrNotFound, appID)
	case resp.StatusCode != http.StatusOK:
		return reviewsPage{}, fmt.Errorf("%w: %s: status %d", internalerr.ErrFetch, appID, resp.StatusCode)
	}

	var page reviewsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return reviewsPage{}, fmt.Errorf("%w: %s: decode: %v", internalerr.ErrFetch, appID, err)
	}
	return page, nil
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
