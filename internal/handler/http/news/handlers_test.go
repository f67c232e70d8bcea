package news_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsboard/internal/domain/entity"
	"newsboard/internal/handler/http/auth"
	"newsboard/internal/handler/http/news"
	"newsboard/internal/infra/extractor"
	"newsboard/internal/infra/fetcher"
	"newsboard/internal/usecase/comment"
	"newsboard/internal/usecase/ingest"
	"newsboard/internal/usecase/resolve"
	"newsboard/internal/usecase/retention"
)

var day = time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

type fakeFeeds struct {
	articles  map[entity.Tag][]*entity.Article
	listing   []entity.Stub
	err       error
	listErr   error
	refreshed []entity.Tag
}

func (f *fakeFeeds) Refresh(_ context.Context, tag entity.Tag) (ingest.Stats, []*entity.Article, error) {
	f.refreshed = append(f.refreshed, tag)
	if f.err != nil {
		return ingest.Stats{}, nil, f.err
	}
	return ingest.Stats{Inserted: len(f.articles[tag])}, f.articles[tag], nil
}

func (f *fakeFeeds) Listing(context.Context) ([]entity.Stub, error) {
	return f.listing, f.listErr
}

type fakeResolver struct {
	res resolve.Resolution
	err error
}

func (f *fakeResolver) ResolveBody(context.Context, int64) (resolve.Resolution, error) {
	return f.res, f.err
}

type fakeComments struct {
	list      []*entity.Comment
	addErr    error
	delErr    error
	articleID int64
	gotID     entity.Identity
	gotText   string
	added     int
}

func (f *fakeComments) AddComment(_ context.Context, id entity.Identity, articleID int64, text string) (*entity.Comment, error) {
	f.gotID, f.gotText = id, text
	if !id.IsAuthenticated() {
		return nil, comment.ErrUnauthenticated
	}
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added++
	return &entity.Comment{ID: 1, ArticleID: articleID, Text: text, AuthorID: id.AccountID}, nil
}

func (f *fakeComments) DeleteComment(_ context.Context, id entity.Identity, _ int64) (int64, error) {
	f.gotID = id
	if !id.IsAuthenticated() {
		return 0, comment.ErrUnauthenticated
	}
	return f.articleID, f.delErr
}

func (f *fakeComments) ListComments(context.Context, int64) ([]*entity.Comment, error) {
	return f.list, nil
}

type fakeSweeper struct {
	deleted int64
	calls   int
}

func (f *fakeSweeper) Sweep(_ context.Context, id entity.Identity, _ time.Time) (int64, error) {
	f.calls++
	if !id.IsPrivileged() {
		return 0, retention.ErrForbidden
	}
	return f.deleted, nil
}

type testServer struct {
	feeds    *fakeFeeds
	resolver *fakeResolver
	comments *fakeComments
	sweeper  *fakeSweeper
	handler  http.Handler
}

func newTestServer() *testServer {
	ts := &testServer{
		feeds:    &fakeFeeds{articles: map[entity.Tag][]*entity.Article{}},
		resolver: &fakeResolver{},
		comments: &fakeComments{},
		sweeper:  &fakeSweeper{},
	}
	mux := http.NewServeMux()
	news.Register(mux, news.Services{
		Feeds:    ts.feeds,
		Resolver: ts.resolver,
		Comments: ts.comments,
		Sweeper:  ts.sweeper,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts.handler = mux
	return ts
}

func (ts *testServer) do(req *http.Request, id entity.Identity) *httptest.ResponseRecorder {
	req = req.WithContext(auth.WithIdentity(req.Context(), id))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

var (
	member = entity.Identity{AccountID: 5, Name: "Ann"}
	admin  = entity.Identity{AccountID: 1, Name: "Root", Privileged: true}
)

func TestFeed_MainIncludesListing(t *testing.T) {
	ts := newTestServer()
	ts.feeds.articles[entity.TagMainTrends] = []*entity.Article{
		{ID: 1, Title: "Rates", Link: "https://a.example/1", Tag: entity.TagMainTrends, PublishedOn: day},
	}
	ts.feeds.listing = []entity.Stub{{Title: "Headline", Link: "https://www.rbc.ru/x"}}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil), entity.Anonymous)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Articles []news.ArticleDTO `json:"articles"`
		Feed     []news.StubDTO    `json:"feed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	want := []news.ArticleDTO{{ID: 1, Title: "Rates", Link: "https://a.example/1", Tag: "main_trends", PublishedOn: "2024-10-01"}}
	if diff := cmp.Diff(want, body.Articles); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []news.StubDTO{{Title: "Headline", Link: "https://www.rbc.ru/x"}}, body.Feed)
	assert.Equal(t, []entity.Tag{entity.TagMainTrends}, ts.feeds.refreshed)
}

func TestFeed_TaggedRoutes(t *testing.T) {
	for path, tag := range map[string]entity.Tag{
		"/science-news": entity.TagScience,
		"/society-news": entity.TagSociety,
	} {
		t.Run(path, func(t *testing.T) {
			ts := newTestServer()
			rec := ts.do(httptest.NewRequest(http.MethodGet, path, nil), entity.Anonymous)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []entity.Tag{tag}, ts.feeds.refreshed)
			assert.JSONEq(t, `{"articles":[]}`, rec.Body.String())
		})
	}
}

func TestFeed_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"transport", fmt.Errorf("fetch source: %w", errors.Join(fetcher.ErrTransport, errors.New("dial"))), http.StatusBadGateway},
		{"store", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.feeds.err = tt.err

			rec := ts.do(httptest.NewRequest(http.MethodGet, "/science-news", nil), entity.Anonymous)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "dial")
			assert.NotContains(t, rec.Body.String(), "refused")
		})
	}
}

func TestShow(t *testing.T) {
	ts := newTestServer()
	ts.resolver.res = resolve.Resolution{
		Article:  &entity.Article{ID: 3, Title: "Mars", Tag: entity.TagScience, PublishedOn: day},
		Body:     "Sample returned.",
		Resolved: true,
	}
	ts.comments.list = []*entity.Comment{
		{ID: 10, Text: "mine", AuthorID: member.AccountID, AuthorName: "Ann"},
		{ID: 11, Text: "theirs", AuthorID: 99, AuthorName: "Bob"},
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/show_news/3", nil), member)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Article  news.ArticleDTO   `json:"article"`
		Body     string            `json:"body"`
		Resolved bool              `json:"resolved"`
		Comments []news.CommentDTO `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Article.ID)
	assert.Equal(t, "Sample returned.", body.Body)
	assert.True(t, body.Resolved)
	require.Len(t, body.Comments, 2)
	assert.True(t, body.Comments[0].Deletable)
	assert.False(t, body.Comments[1].Deletable)
}

func TestShow_ExtractionFailureIsNotAnError(t *testing.T) {
	ts := newTestServer()
	ts.resolver.res = resolve.Resolution{
		Article: &entity.Article{ID: 3, Tag: entity.Tag("general"), PublishedOn: day},
		Failure: extractor.ErrExtractionFailed,
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/show_news/3", nil), entity.Anonymous)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"body":""`)
	assert.Contains(t, rec.Body.String(), `"resolved":false`)
}

func TestShow_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{"bad id", "/show_news/abc", nil, http.StatusBadRequest},
		{"zero id", "/show_news/0", nil, http.StatusBadRequest},
		{"missing", "/show_news/9", resolve.ErrNotFound, http.StatusNotFound},
		{"transport", "/show_news/9", fmt.Errorf("fetch: %w", fetcher.ErrTransport), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.resolver.err = tt.err
			rec := ts.do(httptest.NewRequest(http.MethodGet, tt.path, nil), entity.Anonymous)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAddComment_FormAndJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"form", "application/x-www-form-urlencoded", url.Values{"text": {"Nice piece"}}.Encode()},
		{"json", "application/json", `{"text":"Nice piece"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			req := httptest.NewRequest(http.MethodPost, "/show_news/4", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			rec := ts.do(req, member)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/show_news/4", rec.Header().Get("Location"))
			assert.Equal(t, "Nice piece", ts.comments.gotText)
			assert.Equal(t, member, ts.comments.gotID)
		})
	}
}

func TestAddComment_AnonymousRedirectsToLogin(t *testing.T) {
	ts := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/show_news/4", strings.NewReader("text=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := ts.do(req, entity.Anonymous)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, ts.comments.added)
}

func TestAddComment_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"empty text", &entity.ValidationError{Field: "text", Message: "comment text is required"}, http.StatusBadRequest},
		{"no article", comment.ErrArticleNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.comments.addErr = tt.err
			req := httptest.NewRequest(http.MethodPost, "/show_news/4", strings.NewReader(`{"text":""}`))
			req.Header.Set("Content-Type", "application/json")

			rec := ts.do(req, member)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestDeleteComment(t *testing.T) {
	tests := []struct {
		name         string
		id           entity.Identity
		err          error
		wantCode     int
		wantLocation string
	}{
		{"author", member, nil, http.StatusSeeOther, "/show_news/7"},
		{"anonymous", entity.Anonymous, nil, http.StatusSeeOther, "/login"},
		{"forbidden", member, comment.ErrForbidden, http.StatusForbidden, ""},
		{"missing", member, comment.ErrCommentNotFound, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.comments.articleID = 7
			ts.comments.delErr = tt.err

			rec := ts.do(httptest.NewRequest(http.MethodGet, "/delete/12", nil), tt.id)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestClearDatabase(t *testing.T) {
	t.Run("privileged", func(t *testing.T) {
		ts := newTestServer()
		ts.sweeper.deleted = 2
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/clear-database", nil), admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())
	})

	t.Run("member", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/clear-database", nil), member)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/clear-database", nil), entity.Anonymous)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Zero(t, ts.sweeper.calls)
	})
}
