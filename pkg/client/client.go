// Package client is a typed HTTP client for the cari JSON API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/log"
	"github.com/rubiojr/cari/pkg/realtime"
)

// AllCategories is the category sentinel that is never sent to the server.
const AllCategories = "Semua"

// ErrPayload matches responses that succeeded at the HTTP level but carry
// an error field, such as a not yet indexed database.
var ErrPayload = errors.New("error in response payload")

// PayloadError is the error field reported by an endpoint.
type PayloadError struct {
	Endpoint string
	Message  string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

func (e *PayloadError) Is(target error) bool {
	return target == ErrPayload
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Endpoint, e.StatusCode, e.Body)
}

var logger = log.ForService("client")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the server address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchRequest is one page of a search.
type SearchRequest struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// SearchPath builds the request path for req: q, limit and page always,
// category only when a specific category is selected.
func SearchPath(req SearchRequest) string {
	var sb strings.Builder
	sb.WriteString("/search?q=")
	sb.WriteString(escape(req.Query))
	sb.WriteString("&limit=")
	sb.WriteString(strconv.Itoa(req.Limit))
	sb.WriteString("&page=")
	sb.WriteString(strconv.Itoa(req.Page))
	if req.Category != "" && req.Category != AllCategories {
		sb.WriteString("&category=")
		sb.WriteString(escape(req.Category))
	}
	return sb.String()
}

// escape encodes a query value with %20 for spaces.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*api.SearchResponse, error) {
	var resp api.SearchResponse
	if err := c.get(ctx, SearchPath(req), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Categories returns the category names in server order.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp api.CategoriesResponse
	if err := c.get(ctx, "/categories", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &PayloadError{Endpoint: "/categories", Message: resp.Error}
	}
	return resp.Categories, nil
}

// Stats returns the index statistics. When the server reports an error in
// the payload the response is returned together with a *PayloadError.
func (c *Client) Stats(ctx context.Context) (*api.StatsResponse, error) {
	var resp api.StatsResponse
	if err := c.get(ctx, "/stats", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return &resp, &PayloadError{Endpoint: "/stats", Message: resp.Error}
	}
	return &resp, nil
}

// Reindex asks the server to rebuild the index. The server returns as soon
// as the job has started.
func (c *Client) Reindex(ctx context.Context) (*api.ReindexResponse, error) {
	var resp api.ReindexResponse
	if err := c.get(ctx, "/reindex", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Analyze(ctx context.Context) (*api.AnalyzeResponse, error) {
	var resp api.AnalyzeResponse
	if err := c.get(ctx, "/analyze", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &PayloadError{Endpoint: "/analyze", Message: resp.Error}
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	endpoint, _, _ := strings.Cut(path, "?")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// Events subscribes to the server event stream. The channel is closed when
// ctx is cancelled or the connection drops. The initial snapshot is
// returned separately.
func (c *Client) Events(ctx context.Context) (*api.EventsInit, <-chan realtime.Event, error) {
	u, err := url.Parse(c.baseURL + "/events")
	if err != nil {
		return nil, nil, fmt.Errorf("parse events URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dial events: %w", err)
	}

	var hello api.EventsInit
	if err := conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("read events snapshot: %w", err)
	}

	events := make(chan realtime.Event, 16)
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	go func() {
		defer close(events)
		for {
			var ev realtime.Event
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil {
					logger.Debugf("events stream closed: %v", err)
				}
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return &hello, events, nil
}
