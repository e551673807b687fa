package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/helpw/internal/debuglog"
	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/search"
	"github.com/pders01/helpw/internal/storage"
)

// ErrNoIndex is returned by SearchOffline when no index is attached.
var ErrNoIndex = errors.New("offline index not enabled")

// DefaultConcurrency bounds parallel section requests during a crawl.
const DefaultConcurrency = 4

// Service is the help-center API as the rest of the app sees it: responses are
// served from the cache while fresh and every fetched article is handed to the
// update listeners.
type Service struct {
	api       helpcenter.API
	cache     *storage.Store
	ttl       time.Duration
	searcher  search.Searcher
	listeners []search.UpdateListener
	live      bool
}

var _ helpcenter.API = (*Service)(nil)

type Option func(*Service)

// WithCache serves responses younger than ttl from store.
func WithCache(store *storage.Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = store
		s.ttl = ttl
	}
}

// WithIndex feeds fetched articles into idx and answers SearchOffline from it.
func WithIndex(idx *search.Index) Option {
	return func(s *Service) {
		s.searcher = idx
		s.listeners = append(s.listeners, idx)
	}
}

// WithListener registers an extra consumer of fetched articles.
func WithListener(l search.UpdateListener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, l)
	}
}

func NewService(api helpcenter.API, opts ...Option) *Service {
	s := &Service{api: api}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Live returns a view of s that always asks the API. Responses still refresh
// the cache and reach the listeners.
func (s *Service) Live() *Service {
	v := *s
	v.live = true
	return &v
}

func (s *Service) SearchArticles(ctx context.Context, query string) ([]helpcenter.Article, error) {
	arts, err := cached(s, helpcenter.SearchPath(query), func() ([]helpcenter.Article, error) {
		return s.api.SearchArticles(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	s.notify(arts)
	return arts, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]helpcenter.Category, error) {
	return cached(s, helpcenter.CategoriesPath(), func() ([]helpcenter.Category, error) {
		return s.api.ListCategories(ctx)
	})
}

func (s *Service) ListSections(ctx context.Context, categoryID int64) ([]helpcenter.Section, error) {
	return cached(s, helpcenter.SectionsPath(categoryID), func() ([]helpcenter.Section, error) {
		return s.api.ListSections(ctx, categoryID)
	})
}

func (s *Service) ListSectionArticles(ctx context.Context, sectionID int64) ([]helpcenter.Article, error) {
	arts, err := cached(s, helpcenter.SectionArticlesPath(sectionID), func() ([]helpcenter.Article, error) {
		return s.api.ListSectionArticles(ctx, sectionID)
	})
	if err != nil {
		return nil, err
	}
	s.notify(arts)
	return arts, nil
}

// Refresh drops cached responses so the next loads hit the network.
func (s *Service) Refresh() error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(); err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	return nil
}

// SearchOffline queries the local index without touching the network.
func (s *Service) SearchOffline(query string, limit int) ([]helpcenter.Article, error) {
	if s.searcher == nil {
		return nil, ErrNoIndex
	}
	results, err := s.searcher.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("offline search: %w", err)
	}
	arts := make([]helpcenter.Article, 0, len(results))
	for _, r := range results {
		arts = append(arts, r.Article)
	}
	return arts, nil
}

func (s *Service) notify(arts []helpcenter.Article) {
	if len(arts) == 0 {
		return
	}
	for _, l := range s.listeners {
		l.OnArticles(arts)
	}
}

// cached returns the stored response for key when fresh and otherwise calls
// fetch and stores what it returns. Cache faults only cost a refetch.
func cached[T any](s *Service, key string, fetch func() (T, error)) (T, error) {
	if s.cache != nil && !s.live {
		var v T
		hit, err := s.cache.Get(key, s.ttl, &v)
		if err != nil {
			debuglog.WithFields(map[string]any{"key": key}).Warnf("cache read failed: %v", err)
		} else if hit {
			debuglog.Debugf("cache hit %s", key)
			return v, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	if s.cache != nil {
		if err := s.cache.Put(key, v); err != nil {
			debuglog.WithFields(map[string]any{"key": key}).Warnf("cache write failed: %v", err)
		}
	}
	return v, nil
}
