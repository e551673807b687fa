package widget

import (
	"context"
	"time"

	"github.com/pders01/helpw/internal/debuglog"
	"github.com/pders01/helpw/internal/helpcenter"
)

// Options tunes the widget's limits.
type Options struct {
	MaxResults      int
	SnippetLength   int
	MinQueryLength  int
	FallbackTerm    string
	PagePath        string
	TransitionDelay time.Duration
	StaleGuard      bool
}

func DefaultOptions() Options {
	return Options{
		MaxResults:      DefaultMaxResults,
		SnippetLength:   DefaultSnippetLength,
		MinQueryLength:  DefaultMinQueryLength,
		FallbackTerm:    DefaultFallbackTerm,
		TransitionDelay: 50 * time.Millisecond,
		StaleGuard:      true,
	}
}

// Fetcher performs the widget's network loads. Every failure is logged and
// turned into an empty result; nothing here returns an error.
type Fetcher struct {
	api  helpcenter.API
	opts Options
}

func NewFetcher(api helpcenter.API, opts Options) *Fetcher {
	return &Fetcher{api: api, opts: opts}
}

func (f *Fetcher) Options() Options { return f.opts }

// DefaultTerm derives the bootstrap search term from the configured page path.
func (f *Fetcher) DefaultTerm() string {
	return SearchTermFromPath(f.opts.PagePath, f.opts.FallbackTerm)
}

// Relevant searches for the page-derived term.
func (f *Fetcher) Relevant(ctx context.Context) []helpcenter.Article {
	return f.search(ctx, f.DefaultTerm())
}

// Search returns ok=false without touching the network when term is too short.
func (f *Fetcher) Search(ctx context.Context, term string) ([]helpcenter.Article, bool) {
	term, ok := NormalizeQuery(term, f.opts.MinQueryLength)
	if !ok {
		return nil, false
	}
	return f.search(ctx, term), true
}

func (f *Fetcher) search(ctx context.Context, term string) []helpcenter.Article {
	arts, err := f.api.SearchArticles(ctx, term)
	if err != nil {
		debuglog.WithFields(map[string]any{"query": term}).Warnf("search failed: %v", err)
		return []helpcenter.Article{}
	}
	return Limit(arts, f.opts.MaxResults)
}

func (f *Fetcher) Categories(ctx context.Context) []helpcenter.Category {
	cats, err := f.api.ListCategories(ctx)
	if err != nil {
		debuglog.Warnf("loading categories failed: %v", err)
		return []helpcenter.Category{}
	}
	return cats
}

func (f *Fetcher) Sections(ctx context.Context, categoryID int64) []helpcenter.Section {
	secs, err := f.api.ListSections(ctx, categoryID)
	if err != nil {
		debuglog.WithFields(map[string]any{"category": categoryID}).Warnf("loading sections failed: %v", err)
		return []helpcenter.Section{}
	}
	return secs
}

func (f *Fetcher) SectionArticles(ctx context.Context, sectionID int64) []helpcenter.Article {
	arts, err := f.api.ListSectionArticles(ctx, sectionID)
	if err != nil {
		debuglog.WithFields(map[string]any{"section": sectionID}).Warnf("loading section articles failed: %v", err)
		return []helpcenter.Article{}
	}
	return arts
}

// Snippet uses the configured length.
func (f *Fetcher) Snippet(body string) string {
	return Snippet(body, f.opts.SnippetLength)
}
