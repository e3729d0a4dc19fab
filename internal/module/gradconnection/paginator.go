package gradconnection

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/project-tktt/gradconnection-crawler/internal/checkpoint"
	"github.com/project-tktt/gradconnection-crawler/internal/common/dedup"
	"github.com/project-tktt/gradconnection-crawler/internal/common/extractor"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// Appender is the part of the checkpoint store the drivers write through
type Appender interface {
	Append(name string, header []string, rows [][]string) error
}

// PageStats counts what pagination wrote
type PageStats struct {
	Pages   int
	Failed  int
	URLRows int
}

// Paginator walks a fixed page range and collects job URLs.
// The range is not cut short by empty pages; the site does not reliably signal the last one.
type Paginator struct {
	fetcher extractor.Fetcher
	store   Appender
	config  Config
}

// NewPaginator creates a listing page walker
func NewPaginator(fetcher extractor.Fetcher, store Appender, cfg Config) *Paginator {
	return &Paginator{
		fetcher: fetcher,
		store:   store,
		config:  cfg.withDefaults(),
	}
}

// Collect fetches every page in the range and returns the union of their job URLs.
// Each page logs one row per distinct URL on that page, so a URL listed on
// several pages gets a row for each of them; the returned set holds each URL once.
func (p *Paginator) Collect(ctx context.Context) (*dedup.URLSet, PageStats, error) {
	urls := dedup.NewURLSet()
	var stats PageStats

	for page := p.config.PageStart; page <= p.config.PageEnd; page++ {
		select {
		case <-ctx.Done():
			return urls, stats, ctx.Err()
		default:
		}

		pageURL := PageURL(p.config.BaseURL, p.config.PageQuery, page)
		log.Printf("[GradConnection] Scraping page %d/%d, URL = %s", page, p.config.PageEnd, pageURL)
		stats.Pages++

		html, err := p.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return urls, stats, ctx.Err()
			}
			stats.Failed++
			failure := domain.PageFailure{Page: page, URL: pageURL}
			if err := p.store.Append(checkpoint.JobURLsFailed, domain.PageFailureHeader, [][]string{failure.Row()}); err != nil {
				return urls, stats, fmt.Errorf("record failed page %d: %w", page, err)
			}
			continue
		}

		found := ExtractListingURLs(html, p.config.Domain)
		rows := make([][]string, 0, len(found))
		added := 0
		for _, u := range found {
			if urls.Add(u) {
				added++
			}
			rows = append(rows, domain.JobURL{Page: page, URL: u}.Row())
		}

		if len(rows) > 0 {
			if err := p.store.Append(checkpoint.JobURLs, domain.JobURLHeader, rows); err != nil {
				return urls, stats, fmt.Errorf("record urls of page %d: %w", page, err)
			}
		}
		stats.URLRows += len(rows)
		log.Printf("[GradConnection] Page %d: %d urls, %d new (%d total)", page, len(found), added, urls.Len())

		if page < p.config.PageEnd && p.config.RequestDelay > 0 {
			if err := sleep(ctx, p.config.RequestDelay); err != nil {
				return urls, stats, err
			}
		}
	}

	return urls, stats, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
