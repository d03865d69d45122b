package statichtml

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gregjones/httpcache"
)

const (
	userAgent   = "rodtl"
	httpTimeout = 10 * time.Second
)

// Fetcher downloads remote documents through an in-memory HTTP cache, so
// repeated navigation to the same fixture does not hit the network.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher with a fresh cache.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   httpTimeout,
		},
	}
}

// Fetch returns the body and content type served at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	col := colly.NewCollector(
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	col.SetClient(f.client)

	var (
		body        []byte
		contentType string
	)
	col.OnResponse(func(res *colly.Response) {
		body = res.Body
		contentType = res.Headers.Get("Content-Type")
	})
	if err := col.Visit(rawURL); err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	col.Wait()
	return body, contentType, nil
}
