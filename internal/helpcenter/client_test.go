package helpcenter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchArticles_EncodesQueryAndParsesResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/articles/search.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "reset password & more" {
			t.Fatalf("unexpected query: %q", got)
		}
		if r.Header.Get("User-Agent") != "helpw-test/1.0" {
			t.Fatalf("unexpected user agent: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"id":1,"title":"Reset","body":"<p>How to reset</p>","html_url":"https://x.zendesk.com/hc/articles/1"},
			{"id":2,"title":"Login","body":"","html_url":"https://x.zendesk.com/hc/articles/2"}
		]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "helpw-test/1.0", ts.Client())
	arts, err := c.SearchArticles(context.Background(), "reset password & more")
	require.NoError(t, err)
	require.Len(t, arts, 2)
	assert.Equal(t, int64(1), arts[0].ID)
	assert.Equal(t, "Reset", arts[0].Title)
	assert.Equal(t, "<p>How to reset</p>", arts[0].Body)
	assert.Equal(t, "https://x.zendesk.com/hc/articles/1", arts[0].HTMLURL)
}

func TestMissingArraysDecodeAsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/articles/search.json":
			_, _ = w.Write([]byte(`{}`))
		case "/categories.json":
			_, _ = w.Write([]byte(`{"categories":null}`))
		case "/categories/7/sections.json":
			_, _ = w.Write([]byte(`{"count":0}`))
		case "/sections/9/articles.json":
			// empty body
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client())
	ctx := context.Background()

	results, err := c.SearchArticles(ctx, "anything")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	secs, err := c.ListSections(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, secs)

	arts, err := c.ListSectionArticles(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestListSections_PreservesOrderAndFillsCategory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories/42/sections.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"sections":[{"id":3,"name":"C"},{"id":1,"name":"A"},{"id":2,"name":"B","category_id":42}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client())
	secs, err := c.ListSections(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, secs, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{secs[0].ID, secs[1].ID, secs[2].ID})
	for _, s := range secs {
		assert.Equal(t, int64(42), s.CategoryID)
	}
}

func TestListSectionArticles_FillsSectionID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"articles":[{"id":10,"title":"Ten"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client())
	arts, err := c.ListSectionArticles(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, int64(5), arts[0].SectionID)
}

func TestStatusErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client())
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusTooManyRequests))
	assert.Contains(t, err.Error(), "slow down")
	assert.Contains(t, err.Error(), "list categories")
}

func TestMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"categories":[{"id":`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client())
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "decode list categories response"))
}

func TestBaseURLAndPaths(t *testing.T) {
	assert.Equal(t, "https://manuonline.zendesk.com/api/v2/help_center", BaseURL("manuonline"))
	assert.Equal(t, "/categories/12/sections.json", SectionsPath(12))
	assert.Equal(t, "/sections/34/articles.json", SectionArticlesPath(34))
	assert.Equal(t, "/articles/search.json?query=getting+started", SearchPath("getting started"))

	c := NewClient("https://example.com/api/", "", nil)
	assert.Equal(t, "https://example.com/api", c.BaseURL())
}
