package feedbin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Entry is the subset of Feedbin fields required by the app.
type Entry struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Author      string    `json:"author"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	FeedID      int64     `json:"feed_id"`
	PublishedAt time.Time `json:"published"`
}

// Subscription describes the subset of feed metadata used by the app.
type Subscription struct {
	ID      int64  `json:"feed_id"`
	Title   string `json:"title"`
	FeedURL string `json:"feed_url"`
	SiteURL string `json:"site_url"`
}

// Tagging files a feed into a folder. Nested folders use "/" in Name.
type Tagging struct {
	ID     int64  `json:"id"`
	FeedID int64  `json:"feed_id"`
	Name   string `json:"name"`
}

// Icon is the favicon Feedbin serves for a site host.
type Icon struct {
	Host string `json:"host"`
	URL  string `json:"url"`
}

type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
}

func NewClient(baseURL, email, password string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		password: password,
		http:     httpClient,
	}
}

func (c *Client) Authenticate(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/authentication.json", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("authenticate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("authentication failed: invalid credentials")
	}
	return statusError("authenticate", resp)
}

func (c *Client) ListEntries(ctx context.Context, page, perPage int) ([]Entry, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	q := make(url.Values)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var entries []Entry
	if err := c.getJSON(ctx, "/entries.json?"+q.Encode(), "entries", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListEntriesByIDs fetches specific entries, at most 100 per call on the
// Feedbin side.
func (c *Client) ListEntriesByIDs(ctx context.Context, ids []int64) ([]Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := make(url.Values)
	q.Set("ids", joinIDs(ids))

	var entries []Entry
	if err := c.getJSON(ctx, "/entries.json?"+q.Encode(), "entries", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var subscriptions []Subscription
	if err := c.getJSON(ctx, "/subscriptions.json", "subscriptions", &subscriptions); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (c *Client) ListTaggings(ctx context.Context) ([]Tagging, error) {
	var taggings []Tagging
	if err := c.getJSON(ctx, "/taggings.json", "taggings", &taggings); err != nil {
		return nil, err
	}
	return taggings, nil
}

func (c *Client) ListIcons(ctx context.Context) ([]Icon, error) {
	var icons []Icon
	if err := c.getJSON(ctx, "/icons.json", "icons", &icons); err != nil {
		return nil, err
	}
	return icons, nil
}

func (c *Client) ListUnreadEntryIDs(ctx context.Context) ([]int64, error) {
	return c.listEntryIDs(ctx, "/unread_entries.json", "unread entries")
}

func (c *Client) ListStarredEntryIDs(ctx context.Context) ([]int64, error) {
	return c.listEntryIDs(ctx, "/starred_entries.json", "starred entries")
}

func (c *Client) ListUpdatedEntryIDsSince(ctx context.Context, since time.Time) ([]int64, error) {
	q := make(url.Values)
	q.Set("since", since.UTC().Format(time.RFC3339Nano))
	return c.listEntryIDs(ctx, "/updated_entries.json?"+q.Encode(), "updated entries")
}

func (c *Client) listEntryIDs(ctx context.Context, path, resource string) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, path, resource, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) MarkEntriesUnread(ctx context.Context, ids []int64) error {
	return c.sendEntryIDs(ctx, http.MethodPost, "/unread_entries.json", "unread_entries", ids)
}

func (c *Client) MarkEntriesRead(ctx context.Context, ids []int64) error {
	return c.sendEntryIDs(ctx, http.MethodDelete, "/unread_entries.json", "unread_entries", ids)
}

func (c *Client) StarEntries(ctx context.Context, ids []int64) error {
	return c.sendEntryIDs(ctx, http.MethodPost, "/starred_entries.json", "starred_entries", ids)
}

func (c *Client) UnstarEntries(ctx context.Context, ids []int64) error {
	return c.sendEntryIDs(ctx, http.MethodDelete, "/starred_entries.json", "starred_entries", ids)
}

func (c *Client) getJSON(ctx context.Context, path, resource string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("list %s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("list "+resource, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func (c *Client) sendEntryIDs(ctx context.Context, method, path, key string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	payload, err := json.Marshal(map[string][]int64{key: ids})
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", key, err)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", strings.ToLower(method), key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError(strings.ToLower(method)+" "+key, resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.password)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func statusError(action string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s failed with status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(body)))
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
