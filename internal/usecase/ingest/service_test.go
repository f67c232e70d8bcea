package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsboard/internal/domain/entity"
	"newsboard/internal/infra/scraper"
	"newsboard/internal/usecase/ingest"
)

/* ───────── in-memory store ───────── */

type memArticles struct {
	mu        sync.Mutex
	rows      []*entity.Article
	nextID    int64
	failTitle string
	creates   int
}

func (m *memArticles) Create(_ context.Context, a *entity.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if a.Title == m.failTitle {
		return errors.New("connection reset")
	}
	for _, r := range m.rows {
		if r.Title == a.Title || r.Link == a.Link {
			return fmt.Errorf("Create: %w", entity.ErrDuplicate)
		}
	}
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memArticles) Get(_ context.Context, id int64) (*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memArticles) ListByTag(_ context.Context, tag entity.Tag) ([]*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Article
	for _, r := range m.rows {
		if r.Tag == tag {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memArticles) UpdateBody(context.Context, int64, string) error { return nil }
func (m *memArticles) Delete(context.Context, int64) error            { return nil }
func (m *memArticles) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (m *memArticles) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

/* ───────── fake sources ───────── */

type fakeAdapter struct {
	stubs []entity.Stub
	err   error
	calls int
}

func (f *fakeAdapter) Fetch(context.Context, string) ([]entity.Stub, error) {
	f.calls++
	return f.stubs, f.err
}

type fakeRegistry struct {
	tagged  map[entity.Tag]scraper.Binding
	order   []entity.Tag
	listing *scraper.Binding
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{tagged: map[entity.Tag]scraper.Binding{}}
}

func (r *fakeRegistry) add(tag entity.Tag, a scraper.Adapter) {
	r.tagged[tag] = scraper.Binding{
		Source:  entity.Source{Name: string(tag) + "-src", Tag: tag, URL: "https://example.com/" + string(tag)},
		Adapter: a,
	}
	r.order = append(r.order, tag)
}

func (r *fakeRegistry) Lookup(tag entity.Tag) (scraper.Binding, bool) {
	b, ok := r.tagged[tag]
	return b, ok
}

func (r *fakeRegistry) Tags() []entity.Tag { return r.order }

func (r *fakeRegistry) Listing() (scraper.Binding, bool) {
	if r.listing == nil {
		return scraper.Binding{}, false
	}
	return *r.listing, true
}

func stubs(n int, prefix string) []entity.Stub {
	out := make([]entity.Stub, n)
	for i := range out {
		out[i] = entity.Stub{
			Title: fmt.Sprintf("%s title %d", prefix, i),
			Link:  fmt.Sprintf("https://example.com/%s/%d", prefix, i),
		}
	}
	return out
}

var fixedNow = time.Date(2024, 10, 20, 23, 30, 0, 0, time.UTC)

func newService(repo *memArticles, reg *fakeRegistry) *ingest.Service {
	moscow := time.FixedZone("MSK", 3*60*60)
	return ingest.NewService(repo, reg, moscow).WithClock(func() time.Time { return fixedNow })
}

/* ───────── Ingest ───────── */

func TestIngest_Idempotent(t *testing.T) {
	repo := &memArticles{}
	svc := newService(repo, newFakeRegistry())
	batch := stubs(5, "a")

	first, err := svc.Ingest(context.Background(), batch, entity.TagScience)
	require.NoError(t, err)
	assert.Equal(t, ingest.Stats{Inserted: 5}, first)

	second, err := svc.Ingest(context.Background(), batch, entity.TagScience)
	require.NoError(t, err)
	assert.Equal(t, ingest.Stats{Duplicated: 5}, second)

	count, _ := repo.Count(context.Background())
	assert.Equal(t, int64(5), count)
}

func TestIngest_DuplicateDoesNotAbortBatch(t *testing.T) {
	repo := &memArticles{}
	svc := newService(repo, newFakeRegistry())

	_, err := svc.Ingest(context.Background(), []entity.Stub{{Title: "old", Link: "https://example.com/old"}}, entity.TagSociety)
	require.NoError(t, err)

	batch := stubs(9, "new")
	batch = append(batch[:4], append([]entity.Stub{{Title: "old", Link: "https://example.com/old"}}, batch[4:]...)...)

	stats, err := svc.Ingest(context.Background(), batch, entity.TagSociety)
	require.NoError(t, err)
	assert.Equal(t, 9, stats.Inserted)
	assert.Equal(t, 1, stats.Duplicated)
	assert.Equal(t, 0, stats.Failed)
}

func TestIngest_SameLinkDifferentTitleIsDuplicate(t *testing.T) {
	repo := &memArticles{}
	svc := newService(repo, newFakeRegistry())

	stats, err := svc.Ingest(context.Background(), []entity.Stub{
		{Title: "Headline", Link: "https://example.com/1"},
		{Title: "Headline (updated)", Link: "https://example.com/1"},
		{Title: "Headline", Link: "https://example.com/2"},
	}, entity.TagMainTrends)
	require.NoError(t, err)
	assert.Equal(t, ingest.Stats{Inserted: 1, Duplicated: 2}, stats)
}

func TestIngest_PreservesOrderAndStampsToday(t *testing.T) {
	repo := &memArticles{}
	svc := newService(repo, newFakeRegistry())

	batch := []entity.Stub{
		{Title: "first", Link: "https://example.com/1", ThumbnailURL: "https://img.example.com/1.jpg"},
		{Title: "second", Link: "https://example.com/2"},
	}
	_, err := svc.Ingest(context.Background(), batch, entity.TagScience)
	require.NoError(t, err)

	got, _ := repo.ListByTag(context.Background(), entity.TagScience)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "https://img.example.com/1.jpg", got[0].ThumbnailURL)
	assert.Equal(t, "second", got[1].Title)
	assert.Empty(t, got[1].Body)

	// 23:30 UTC is already the next day in Moscow.
	want := time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC)
	assert.True(t, got[0].PublishedOn.Equal(want), "published_on = %v, want %v", got[0].PublishedOn, want)
}

func TestIngest_InvalidAndFailedAreCounted(t *testing.T) {
	repo := &memArticles{failTitle: "broken"}
	svc := newService(repo, newFakeRegistry())

	stats, err := svc.Ingest(context.Background(), []entity.Stub{
		{Title: "", Link: "https://example.com/no-title"},
		{Title: "no link"},
		{Title: "broken", Link: "https://example.com/broken"},
		{Title: "fine", Link: "https://example.com/fine"},
	}, entity.TagScience)
	require.NoError(t, err)
	assert.Equal(t, ingest.Stats{Inserted: 1, Failed: 1, Invalid: 2}, stats)
	assert.Equal(t, 2, repo.creates)
}

func TestIngest_InvalidTag(t *testing.T) {
	svc := newService(&memArticles{}, newFakeRegistry())

	_, err := svc.Ingest(context.Background(), stubs(1, "x"), "")
	var vErr *entity.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestIngest_StopsOnCancelledContext(t *testing.T) {
	repo := &memArticles{}
	svc := newService(repo, newFakeRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := svc.Ingest(ctx, stubs(3, "c"), entity.TagScience)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 0, repo.creates)
}

func TestIngest_ConcurrentBatchesInsertOnce(t *testing.T) {
	repo := &memArticles{}
	svc := newService(repo, newFakeRegistry())
	batch := stubs(20, "race")

	var wg sync.WaitGroup
	inserted := make([]int, 4)
	for i := range inserted {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := svc.Ingest(context.Background(), batch, entity.TagScience)
			assert.NoError(t, err)
			inserted[i] = stats.Inserted
		}()
	}
	wg.Wait()

	total := 0
	for _, n := range inserted {
		total += n
	}
	assert.Equal(t, 20, total)
}

/* ───────── Refresh / RefreshAll / Listing ───────── */

func TestRefresh_ReturnsAllArticlesOfTag(t *testing.T) {
	repo := &memArticles{}
	reg := newFakeRegistry()
	adapter := &fakeAdapter{stubs: stubs(3, "sci")}
	reg.add(entity.TagScience, adapter)
	reg.add(entity.TagSociety, &fakeAdapter{stubs: stubs(2, "soc")})
	svc := newService(repo, reg)

	_, _, err := svc.Refresh(context.Background(), entity.TagSociety)
	require.NoError(t, err)

	stats, articles, err := svc.Refresh(context.Background(), entity.TagScience)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Inserted)
	require.Len(t, articles, 3)
	for i, a := range articles {
		assert.Equal(t, entity.TagScience, a.Tag)
		assert.Equal(t, fmt.Sprintf("sci title %d", i), a.Title)
	}

	// A second refresh of the same page adds nothing.
	stats, articles, err = svc.Refresh(context.Background(), entity.TagScience)
	require.NoError(t, err)
	assert.Equal(t, ingest.Stats{Duplicated: 3}, stats)
	assert.Len(t, articles, 3)
	assert.Equal(t, 2, adapter.calls)
}

func TestRefresh_TransportErrorFailsCall(t *testing.T) {
	repo := &memArticles{}
	reg := newFakeRegistry()
	transport := errors.New("transport failure")
	reg.add(entity.TagScience, &fakeAdapter{err: transport})
	svc := newService(repo, reg)

	_, articles, err := svc.Refresh(context.Background(), entity.TagScience)
	assert.ErrorIs(t, err, transport)
	assert.Nil(t, articles)
	assert.Equal(t, 0, repo.creates)
}

func TestRefresh_UnknownTag(t *testing.T) {
	svc := newService(&memArticles{}, newFakeRegistry())

	_, _, err := svc.Refresh(context.Background(), "sports")
	assert.ErrorIs(t, err, ingest.ErrUnknownTag)
}

func TestRefreshAll_ContinuesPastFailures(t *testing.T) {
	repo := &memArticles{}
	reg := newFakeRegistry()
	reg.add(entity.TagMainTrends, &fakeAdapter{stubs: stubs(2, "main")})
	reg.add(entity.TagScience, &fakeAdapter{err: errors.New("down")})
	reg.add(entity.TagSociety, &fakeAdapter{stubs: stubs(4, "soc")})
	svc := newService(repo, reg)

	results, err := svc.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Equal(t, 2, results[entity.TagMainTrends].Inserted)
	assert.Equal(t, 4, results[entity.TagSociety].Inserted)
	_, ok := results[entity.TagScience]
	assert.False(t, ok)
}

func TestListing(t *testing.T) {
	repo := &memArticles{}
	reg := newFakeRegistry()
	reg.listing = &scraper.Binding{
		Source:  entity.Source{Name: "main-feed", URL: "https://example.com"},
		Adapter: &fakeAdapter{stubs: stubs(3, "feed")},
	}
	svc := newService(repo, reg)

	feed, err := svc.Listing(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed, 3)
	assert.Equal(t, 0, repo.creates)
}

func TestListing_NotConfigured(t *testing.T) {
	feed, err := newService(&memArticles{}, newFakeRegistry()).Listing(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feed)
}
