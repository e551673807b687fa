package helpcenter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultUserAgent = "helpw/1.0 (help center browser; github.com/pders01/helpw)"
	defaultTimeout   = 30 * time.Second
)

// API is the read-only help-center surface the widget consumes.
type API interface {
	SearchArticles(ctx context.Context, query string) ([]Article, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListSections(ctx context.Context, categoryID int64) ([]Section, error)
	ListSectionArticles(ctx context.Context, sectionID int64) ([]Article, error)
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Resource string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed with status %d", e.Resource, e.Code)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Resource, e.Code, e.Body)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// BaseURL builds the API root for a Zendesk subdomain.
func BaseURL(subdomain string) string {
	return "https://" + subdomain + ".zendesk.com/api/v2/help_center"
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewClient(baseURL, userAgent string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      httpClient,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) SearchArticles(ctx context.Context, query string) ([]Article, error) {
	var out searchResponse
	if err := c.getJSON(ctx, SearchPath(query), "search articles", &out); err != nil {
		return nil, err
	}
	return nonNil(out.Results), nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out categoriesResponse
	if err := c.getJSON(ctx, CategoriesPath(), "list categories", &out); err != nil {
		return nil, err
	}
	if out.Categories == nil {
		return []Category{}, nil
	}
	return out.Categories, nil
}

func (c *Client) ListSections(ctx context.Context, categoryID int64) ([]Section, error) {
	var out sectionsResponse
	if err := c.getJSON(ctx, SectionsPath(categoryID), "list sections", &out); err != nil {
		return nil, err
	}
	if out.Sections == nil {
		return []Section{}, nil
	}
	for i := range out.Sections {
		if out.Sections[i].CategoryID == 0 {
			out.Sections[i].CategoryID = categoryID
		}
	}
	return out.Sections, nil
}

func (c *Client) ListSectionArticles(ctx context.Context, sectionID int64) ([]Article, error) {
	var out articlesResponse
	if err := c.getJSON(ctx, SectionArticlesPath(sectionID), "list section articles", &out); err != nil {
		return nil, err
	}
	arts := nonNil(out.Articles)
	for i := range arts {
		if arts[i].SectionID == 0 {
			arts[i].SectionID = sectionID
		}
	}
	return arts, nil
}

// SearchPath is the request path (relative to the API root) for a search.
func SearchPath(query string) string {
	q := make(url.Values)
	q.Set("query", query)
	return "/articles/search.json?" + q.Encode()
}

func CategoriesPath() string { return "/categories.json" }

func SectionsPath(categoryID int64) string {
	return "/categories/" + strconv.FormatInt(categoryID, 10) + "/sections.json"
}

func SectionArticlesPath(sectionID int64) string {
	return "/sections/" + strconv.FormatInt(sectionID, 10) + "/articles.json"
}

func (c *Client) getJSON(ctx context.Context, path, resource string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Resource: resource, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", resource, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func nonNil(arts []Article) []Article {
	if arts == nil {
		return []Article{}
	}
	return arts
}
