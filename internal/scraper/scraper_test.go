package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScraper_OpenGraphPage(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<meta property="og:title" content="iPhone 13, 128 GB"/>
		<meta property="og:image" content="https://img.example.com/1.jpg"/>
		<meta property="og:description" content="Great condition"/>
		<meta property="product:price:amount" content="45000"/>
	</head><body></body></html>`)

	result, err := New(5*time.Second).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "iPhone 13, 128 GB", result.Title)
	assert.Equal(t, "https://img.example.com/1.jpg", result.ImageURL)
	assert.Equal(t, "Great condition", result.Description)
	require.NotNil(t, result.Price)
	assert.Equal(t, float64(45000), *result.Price)
}

func TestScraper_FallbackHeuristics(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<title>  Old   bicycle  </title>
		<meta name="description" content="Rusty <b>but</b> working"/>
	</head><body>
		<img src="https://img.example.com/bike.png" alt=""/>
		<span>12 500 ₽</span>
	</body></html>`)

	result, err := New(5*time.Second).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Old bicycle", result.Title)
	assert.Equal(t, "Rusty but working", result.Description, "markup inside content is stripped")
	assert.Equal(t, "https://img.example.com/bike.png", result.ImageURL)
	require.NotNil(t, result.Price)
	assert.Equal(t, float64(12500), *result.Price)
}

func TestScraper_OptionalFieldsMayBeEmpty(t *testing.T) {
	srv := serveHTML(t, `<html><head><title>Bare listing</title></head><body>hi</body></html>`)

	result, err := New(5*time.Second).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Bare listing", result.Title)
	assert.Empty(t, result.ImageURL)
	assert.Empty(t, result.Description)
	assert.Nil(t, result.Price)
}

func TestScraper_NoTitleIsUnparseable(t *testing.T) {
	srv := serveHTML(t, `<html><body>nothing to see</body></html>`)

	_, err := New(5*time.Second).Scrape(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestScraper_InvalidURL(t *testing.T) {
	s := New(time.Second)
	for _, url := range []string{"", "ftp://example.com", "example.com/item"} {
		_, err := s.Scrape(context.Background(), url)
		assert.ErrorIs(t, err, ErrInvalidURL, "url %q", url)
	}
}

func TestScraper_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := New(time.Second).Scrape(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestScraper_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	_, err := New(50 * time.Millisecond).Scrape(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestScraper_BrowserHeadersSent(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`<title>probe</title>`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(time.Second).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Contains(t, gotAccept, "text/html")
}
