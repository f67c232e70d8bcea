package scraper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsboard/internal/infra/fetcher"
	"newsboard/internal/infra/scraper"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Article 1</title>
      <link>https://example.com/article1</link>
      <enclosure url="https://example.com/1.jpg" type="image/jpeg" length="100"/>
    </item>
    <item>
      <title>  </title>
      <link>https://example.com/untitled</link>
    </item>
    <item>
      <title>Article 2</title>
      <link>/article2</link>
      <enclosure url="https://example.com/2.mp3" type="audio/mpeg" length="100"/>
    </item>
  </channel>
</rss>`

func TestRSSAdapter_Fetch_Success(t *testing.T) {
	srv := serveHTML(t, sampleFeed)

	stubs, err := scraper.NewRSSAdapter(newTestFetcher()).Fetch(context.Background(), srv.URL+"/feed")
	require.NoError(t, err)
	require.Len(t, stubs, 2)

	assert.Equal(t, "Article 1", stubs[0].Title)
	assert.Equal(t, "https://example.com/article1", stubs[0].Link)
	assert.Equal(t, "https://example.com/1.jpg", stubs[0].ThumbnailURL)

	assert.Equal(t, "Article 2", stubs[1].Title)
	assert.Equal(t, srv.URL+"/article2", stubs[1].Link)
	assert.Empty(t, stubs[1].ThumbnailURL)
}

func TestRSSAdapter_Fetch_InvalidFeed(t *testing.T) {
	srv := serveHTML(t, "not a feed")

	_, err := scraper.NewRSSAdapter(newTestFetcher()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, errors.Is(err, fetcher.ErrTransport))
}

func TestRSSAdapter_Fetch_TransportError(t *testing.T) {
	f := &stubFetcher{err: errors.Join(fetcher.ErrTransport, errors.New("dial failed"))}

	stubs, err := scraper.NewRSSAdapter(f).Fetch(context.Background(), "https://example.com/feed")
	require.Error(t, err)
	assert.ErrorIs(t, err, fetcher.ErrTransport)
	assert.Nil(t, stubs)
}
