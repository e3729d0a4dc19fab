package extractor

import (
	"context"
	"fmt"
	"log"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements Fetcher using a Colly collector
type CollyFetcher struct {
	collector *colly.Collector
	config    ExtractorConfig
}

// NewCollyFetcher creates a fetcher bounded by config.Timeout
func NewCollyFetcher(config ExtractorConfig) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)

	if config.Timeout > 0 {
		c.SetRequestTimeout(config.Timeout)
	}

	// Set proxy if configured
	if config.ProxyURL != "" {
		if err := c.SetProxy(config.ProxyURL); err != nil {
			log.Printf("[Fetcher] Ignoring proxy %s: %v", config.ProxyURL, err)
		}
	}

	return &CollyFetcher{
		collector: c,
		config:    config,
	}
}

func (f *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body []byte
	var fetchErr error

	collector := f.collector.Clone()
	collector.Context = ctx

	collector.OnRequest(func(r *colly.Request) {
		for k, v := range f.config.Headers {
			r.Headers.Set(k, v)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		if r.StatusCode/100 != 2 {
			fetchErr = fmt.Errorf("unexpected status %d", r.StatusCode)
			return
		}
		body = r.Body
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("colly error: %w (status: %d)", err, r.StatusCode)
	})

	err := collector.Visit(url)
	if fetchErr != nil {
		err = fetchErr
	}
	if err != nil {
		log.Printf("[Fetcher] Error fetching %s: %v", url, err)
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	return string(body), nil
}
