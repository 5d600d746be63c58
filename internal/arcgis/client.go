package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "mapharvest/1.0 (+https://github.com/mrlokans/mapharvest)"
)

// Options tunes the HTTP behaviour of a Client.
type Options struct {
	Timeout time.Duration
	// RequestsPerSecond limits outgoing requests; zero or negative disables the limit.
	RequestsPerSecond float64
	UserAgent         string
}

// Client talks to the REST API of one ArcGIS portal.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a client for the portal rooted at baseURL
func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimRight(baseURL, "/"))
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("User-Agent", opts.UserAgent)
	httpClient.SetHeader("Accept", "application/json")
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the portal root this client was created for
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchInfo runs the count query for a group: no results, only query echo and total.
func (c *Client) SearchInfo(ctx context.Context, groupID string) (*SearchResponse[Map], error) {
	var out SearchResponse[Map]
	err := c.get(ctx, searchPath, map[string]string{
		"q":   GroupQuery(groupID),
		"num": "0",
		"f":   "json",
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPage fetches one page of at most PageSize items starting at the 1-based offset start.
func (c *Client) SearchPage(ctx context.Context, groupID string, start int) (*SearchResponse[Map], error) {
	var out SearchResponse[Map]
	err := c.get(ctx, searchPath, map[string]string{
		"q":         GroupQuery(groupID),
		"sortField": "title",
		"sortOrder": "asc",
		"start":     strconv.Itoa(start),
		"num":       strconv.Itoa(PageSize),
		"f":         "json",
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// User fetches the profile of a portal user
func (c *Client) User(ctx context.Context, username string) (*User, error) {
	var out User
	err := c.get(ctx, userPath, map[string]string{"f": "json"}, map[string]string{"username": username}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GroupsByQuery resolves a group search expression (or a bare group id) into group records.
func (c *Client) GroupsByQuery(ctx context.Context, query string) ([]FeaturedGroup, error) {
	var out SearchResponse[FeaturedGroup]
	err := c.get(ctx, groupsPath, map[string]string{
		"q": query,
		"f": "json",
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Overview fetches the portal self description with its featured groups.
func (c *Client) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	err := c.get(ctx, overviewPath, map[string]string{
		"culture": "en",
		"f":       "json",
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type apiResult interface {
	apiError() *APIError
}

// get decodes the body manually: portals often label JSON as text/plain.
func (c *Client) get(ctx context.Context, path string, query, pathParams map[string]string, out apiResult) error {
	req := c.http.R().SetContext(ctx).SetQueryParams(query)
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	if resp.IsError() {
		return &StatusError{StatusCode: resp.StatusCode(), URL: resp.Request.URL}
	}

	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if apiErr := out.apiError(); apiErr != nil {
		return apiErr
	}
	return nil
}
