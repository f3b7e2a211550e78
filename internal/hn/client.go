// Package hn is a client for the Hacker News Firebase API.
//
// Two endpoints are used:
//
//	GET {base}/{listing}.json   -> [id, id, ...]
//	GET {base}/item/{id}.json   -> {"id": ..., "title": ...} or null
package hn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abelbrown/storybrowser/internal/httpclient"
	"github.com/abelbrown/storybrowser/internal/metrics"
)

// DefaultBaseURL is the public Hacker News API root.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// Listings maps listing names to their endpoint names.
var Listings = map[string]string{
	"top":  "topstories",
	"new":  "newstories",
	"best": "beststories",
	"ask":  "askstories",
	"show": "showstories",
	"job":  "jobstories",
}

// DeletedTitle is shown for stories the API reports as null, deleted or dead.
const DeletedTitle = "[deleted]"

// Story is the detail record for one identifier.
type Story struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type,omitempty"`
	By          string `json:"by,omitempty"`
	URL         string `json:"url,omitempty"`
	Score       int    `json:"score,omitempty"`
	Descendants int    `json:"descendants,omitempty"`
	Time        int64  `json:"time,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
	Dead        bool   `json:"dead,omitempty"`
}

// Published returns the story's submission time.
func (s Story) Published() time.Time {
	if s.Time == 0 {
		return time.Time{}
	}
	return time.Unix(s.Time, 0)
}

// DiscussionURL returns the news.ycombinator.com page for the story.
func (s Story) DiscussionURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", s.ID)
}

// Client fetches identifiers and stories from the API.
type Client struct {
	client  *http.Client
	baseURL string
	listing string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the shared pooled client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithBaseURL points the client at a different API root (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(cl *Client) {
		cl.baseURL = u
	}
}

// WithListing selects the listing endpoint by name ("top", "new", ...).
// Unknown names are used verbatim as the endpoint name.
func WithListing(name string) Option {
	return func(cl *Client) {
		if ep, ok := Listings[name]; ok {
			cl.listing = ep
			return
		}
		cl.listing = name
	}
}

// NewClient creates a Client for the top stories listing.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:  httpclient.Default(),
		baseURL: DefaultBaseURL,
		listing: Listings["top"],
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Listing returns the endpoint name used by FetchIdentifiers.
func (c *Client) Listing() string {
	return c.listing
}

// FetchIdentifiers returns the listing's story ids in upstream order,
// verbatim: no filtering, dedup or sorting.
func (c *Client) FetchIdentifiers(ctx context.Context) ([]int, error) {
	url := fmt.Sprintf("%s/%s.json", c.baseURL, c.listing)

	body, err := c.get(ctx, "ids", metrics.EndpointListing, url)
	if err != nil {
		return nil, err
	}

	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, c.parseError("ids", url, err)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// FetchItem returns the story for id. A null body (deleted or absent item)
// yields a placeholder with Deleted set rather than an error.
func (c *Client) FetchItem(ctx context.Context, id int) (Story, error) {
	url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)

	body, err := c.get(ctx, "item", metrics.EndpointItem, url)
	if err != nil {
		return Story{}, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return Story{ID: id, Title: DeletedTitle, Deleted: true}, nil
	}

	var story Story
	if err := json.Unmarshal(body, &story); err != nil {
		return Story{}, c.parseError("item", url, err)
	}
	if story.ID == 0 {
		story.ID = id
	}
	if story.Title == "" && (story.Deleted || story.Dead) {
		story.Title = DeletedTitle
	}
	return story, nil
}

func (c *Client) get(ctx context.Context, op, endpoint, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "storybrowser/0.1 (https://github.com/abelbrown/storybrowser)")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("hn %s aborted: %w", op, ctxErr)
		}
		metrics.ObserveRequest(endpoint, 0, time.Since(start))
		metrics.ErrorsTotal.WithLabelValues(string(KindTransport)).Inc()
		return nil, &Error{Kind: KindTransport, Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.ObserveRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		metrics.ErrorsTotal.WithLabelValues(string(KindTransport)).Inc()
		return nil, &Error{Kind: KindTransport, Op: op, URL: url, Status: resp.StatusCode}
	}
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(string(KindTransport)).Inc()
		return nil, &Error{Kind: KindTransport, Op: op, URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return body, nil
}

func (c *Client) parseError(op, url string, err error) error {
	metrics.ErrorsTotal.WithLabelValues(string(KindParse)).Inc()
	return &Error{Kind: KindParse, Op: op, URL: url, Err: err}
}
