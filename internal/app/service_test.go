package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/search"
	"github.com/pders01/helpw/internal/storage"
)

type fakeAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	failWith error
	delay    map[int64]time.Duration

	results    []helpcenter.Article
	categories []helpcenter.Category
	sections   map[int64][]helpcenter.Section
	articles   map[int64][]helpcenter.Article
	inFlight   atomic.Int32
	maxFlight  atomic.Int32
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls: map[string]int{},
		results: []helpcenter.Article{
			{ID: 1, Title: "Resetting your password", Body: "<p>Open settings</p>", HTMLURL: "https://h.test/1"},
		},
		categories: []helpcenter.Category{{ID: 10, Name: "Billing"}, {ID: 20, Name: "Accounts"}},
		sections: map[int64][]helpcenter.Section{
			10: {{ID: 102, Name: "Invoices", CategoryID: 10}, {ID: 101, Name: "Plans", CategoryID: 10}},
			20: {{ID: 201, Name: "Login", CategoryID: 20}},
		},
		articles: map[int64][]helpcenter.Article{
			101: {{ID: 5, Title: "Change plan", SectionID: 101}},
			102: {{ID: 6, Title: "Download invoice", SectionID: 102}, {ID: 7, Title: "Invoice address", SectionID: 102}},
			201: {{ID: 8, Title: "Two-factor login", SectionID: 201}},
		},
		delay: map[int64]time.Duration{},
	}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) enter(name string) error {
	f.mu.Lock()
	f.calls[name]++
	err := f.failWith
	f.mu.Unlock()

	n := f.inFlight.Add(1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	return err
}

func (f *fakeAPI) leave() { f.inFlight.Add(-1) }

func (f *fakeAPI) SearchArticles(ctx context.Context, query string) ([]helpcenter.Article, error) {
	defer f.leave()
	if err := f.enter("search"); err != nil {
		return nil, err
	}
	return f.results, nil
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]helpcenter.Category, error) {
	defer f.leave()
	if err := f.enter("categories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeAPI) ListSections(ctx context.Context, categoryID int64) ([]helpcenter.Section, error) {
	defer f.leave()
	if err := f.enter("sections"); err != nil {
		return nil, err
	}
	time.Sleep(f.delay[categoryID])
	return f.sections[categoryID], nil
}

func (f *fakeAPI) ListSectionArticles(ctx context.Context, sectionID int64) ([]helpcenter.Article, error) {
	defer f.leave()
	if err := f.enter("articles"); err != nil {
		return nil, err
	}
	time.Sleep(f.delay[sectionID])
	return f.articles[sectionID], nil
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestIndex(t *testing.T) *search.Index {
	t.Helper()
	idx, err := search.NewMemIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestService_PassThroughWithoutCache(t *testing.T) {
	api := newFakeAPI()
	svc := NewService(api)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cats, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, 2)
	}
	assert.Equal(t, 2, api.count("categories"))
	assert.NoError(t, svc.Refresh())
}

func TestService_CacheServesFreshResponses(t *testing.T) {
	api := newFakeAPI()
	svc := NewService(api, WithCache(newTestStore(t), time.Hour))
	ctx := context.Background()

	first, err := svc.ListSections(ctx, 10)
	require.NoError(t, err)
	second, err := svc.ListSections(ctx, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.count("sections"))

	_, err = svc.SearchArticles(ctx, "password")
	require.NoError(t, err)
	_, err = svc.SearchArticles(ctx, "password")
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("search"))

	_, err = svc.SearchArticles(ctx, "billing")
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("search"))
}

func TestService_LiveAlwaysAsksTheAPI(t *testing.T) {
	api := newFakeAPI()
	svc := NewService(api, WithCache(newTestStore(t), 15*time.Minute))
	live := svc.Live()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := live.SearchArticles(ctx, "password")
		require.NoError(t, err)
		_, err = live.ListCategories(ctx)
		require.NoError(t, err)
		_, err = live.ListSections(ctx, 10)
		require.NoError(t, err)
		_, err = live.ListSectionArticles(ctx, 101)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, api.count("search"))
	assert.Equal(t, 2, api.count("categories"))
	assert.Equal(t, 2, api.count("sections"))
	assert.Equal(t, 2, api.count("articles"))

	// Live responses are written through for cached readers.
	_, err := svc.SearchArticles(ctx, "password")
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("search"))
}

func TestService_RefreshForcesRefetch(t *testing.T) {
	api := newFakeAPI()
	svc := NewService(api, WithCache(newTestStore(t), time.Hour))
	ctx := context.Background()

	_, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Refresh())
	_, err = svc.ListCategories(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, api.count("categories"))
}

func TestService_ErrorsAreNotCached(t *testing.T) {
	api := newFakeAPI()
	api.failWith = errors.New("offline")
	svc := NewService(api, WithCache(newTestStore(t), time.Hour))
	ctx := context.Background()

	_, err := svc.ListCategories(ctx)
	require.Error(t, err)

	api.failWith = nil
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, 2, api.count("categories"))
}

func TestService_IndexesFetchedArticles(t *testing.T) {
	api := newFakeAPI()
	idx := newTestIndex(t)
	svc := NewService(api, WithIndex(idx))
	ctx := context.Background()

	_, err := svc.SearchArticles(ctx, "password")
	require.NoError(t, err)
	_, err = svc.ListSectionArticles(ctx, 102)
	require.NoError(t, err)

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	arts, err := svc.SearchOffline("invoice", 3)
	require.NoError(t, err)
	require.NotEmpty(t, arts)
	for _, a := range arts {
		assert.Contains(t, []int64{6, 7}, a.ID)
	}
}

type recorder struct {
	mu   sync.Mutex
	seen []int64
}

func (r *recorder) OnArticles(arts []helpcenter.Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range arts {
		r.seen = append(r.seen, a.ID)
	}
}

func TestService_ListenersSkipEmptyBatches(t *testing.T) {
	api := newFakeAPI()
	rec := &recorder{}
	svc := NewService(api, WithListener(rec))

	_, err := svc.ListSectionArticles(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, rec.seen)

	_, err = svc.ListSectionArticles(context.Background(), 201)
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, rec.seen)
}

func TestService_SearchOfflineWithoutIndex(t *testing.T) {
	svc := NewService(newFakeAPI())
	_, err := svc.SearchOffline("anything", 3)
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestTree_PreservesOrderUnderConcurrency(t *testing.T) {
	api := newFakeAPI()
	// The first category and first section answer last.
	api.delay[10] = 30 * time.Millisecond
	api.delay[102] = 30 * time.Millisecond
	svc := NewService(api)

	tree, err := svc.Tree(context.Background(), true, 4)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, "Billing", tree[0].Category.Name)
	assert.Equal(t, "Accounts", tree[1].Category.Name)
	require.Len(t, tree[0].Sections, 2)
	assert.Equal(t, int64(102), tree[0].Sections[0].Section.ID)
	assert.Equal(t, int64(101), tree[0].Sections[1].Section.ID)
	require.Len(t, tree[0].Sections[0].Articles, 2)
	assert.Equal(t, int64(6), tree[0].Sections[0].Articles[0].ID)
	assert.Equal(t, int64(7), tree[0].Sections[0].Articles[1].ID)
}

func TestTree_WithoutArticles(t *testing.T) {
	api := newFakeAPI()
	svc := NewService(api)

	tree, err := svc.Tree(context.Background(), false, 0)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Len(t, tree[0].Sections, 2)
	assert.Nil(t, tree[0].Sections[0].Articles)
	assert.Equal(t, 0, api.count("articles"))
}

func TestTree_RespectsConcurrencyLimit(t *testing.T) {
	api := newFakeAPI()
	for _, id := range []int64{101, 102, 201} {
		api.delay[id] = 10 * time.Millisecond
	}
	svc := NewService(api)

	_, err := svc.Tree(context.Background(), true, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.maxFlight.Load())
}

func TestCrawl(t *testing.T) {
	api := newFakeAPI()
	idx := newTestIndex(t)
	svc := NewService(api, WithIndex(idx))

	stats, err := svc.Crawl(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, CrawlStats{Categories: 2, Sections: 3, Articles: 4}, stats)

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCrawl_PropagatesErrors(t *testing.T) {
	api := newFakeAPI()
	api.failWith = errors.New("boom")
	svc := NewService(api)

	_, err := svc.Crawl(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing categories")
}
