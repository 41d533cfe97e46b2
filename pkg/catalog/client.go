// Package catalog provides the client for the upstream movie catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"movie-sync-go/pkg/config"
	"movie-sync-go/pkg/interfaces"
	"movie-sync-go/pkg/logging"
	"movie-sync-go/pkg/types"
)

const (
	listPath   = "/danh-sach/phim-moi-cap-nhat"
	detailPath = "/phim/"
)

// FetchError is returned for any transport failure or non-2xx upstream
// response. The sync loop does not interpret HTTP status codes beyond
// success or failure; the code is carried for logging only.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: upstream status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client talks to the catalog API.
type Client struct {
	baseURL  string
	pageSize int
	http     interfaces.HTTPClient
	log      *logging.Logger
}

// New creates a catalog client from configuration.
func New(cfg *config.Config, httpClient interfaces.HTTPClient, log *logging.Logger) *Client {
	return &Client{
		baseURL:  cfg.APIBaseURL,
		pageSize: cfg.PageSize,
		http:     httpClient,
		log:      log.WithComponent("catalog"),
	}
}

// ListUpdated fetches one page of the "recently updated" listing.
func (c *Client) ListUpdated(ctx context.Context, page int) (*types.ListResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.pageSize))
	reqURL := c.baseURL + listPath + "?" + q.Encode()

	var listing types.ListResponse
	if err := c.getJSON(ctx, reqURL, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// FetchDetail fetches the full detail payload for a movie slug.
func (c *Client) FetchDetail(ctx context.Context, slug string) (*types.DetailResponse, error) {
	reqURL := c.baseURL + detailPath + url.PathEscape(slug)

	var detail types.DetailResponse
	if err := c.getJSON(ctx, reqURL, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// getJSON performs a GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{URL: reqURL, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &FetchError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &FetchError{URL: reqURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

var _ interfaces.CatalogAPI = (*Client)(nil)
