package gradconnection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/project-tktt/gradconnection-crawler/internal/checkpoint"
	"github.com/project-tktt/gradconnection-crawler/internal/common/dedup"
	"github.com/project-tktt/gradconnection-crawler/internal/common/extractor"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
	"github.com/project-tktt/gradconnection-crawler/internal/module"
)

// Config holds GradConnection-specific configuration
type Config struct {
	BaseURL      string
	Domain       string
	PageQuery    string
	PageStart    int
	PageEnd      int
	RequestDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultURL
	}
	if c.Domain == "" {
		c.Domain = Domain
	}
	if c.PageQuery == "" {
		c.PageQuery = PageQuery
	}
	if c.PageStart <= 0 {
		c.PageStart = PageStart
	}
	if c.PageEnd <= 0 {
		c.PageEnd = PageEnd
	}
	return c
}

// Crawler implements module.Crawler for GradConnection
type Crawler struct {
	store     *checkpoint.Store
	paginator *Paginator
	harvester *Harvester
}

// NewCrawler wires pagination and detail harvesting over one checkpoint store. sink may be nil.
func NewCrawler(cfg Config, fetcher extractor.Fetcher, ext extractor.Extractor, store *checkpoint.Store, sink DetailSink) *Crawler {
	return &Crawler{
		store:     store,
		paginator: NewPaginator(fetcher, store, cfg),
		harvester: NewHarvester(ext, store, sink),
	}
}

// OnProgress forwards detail harvest progress to fn
func (c *Crawler) OnProgress(fn ProgressFunc) {
	c.harvester.OnProgress(fn)
}

// Source returns the source identifier
func (c *Crawler) Source() domain.JobSource {
	return domain.SourceGradConnection
}

// Prepare clears every checkpoint for a fresh start, or makes sure they exist for a resume
func (c *Crawler) Prepare(mode module.Mode) error {
	log.Printf("[GradConnection] Preparing checkpoints (%s)", mode)
	if mode == module.ModeReset {
		return c.store.Reset(checkpoint.All...)
	}
	return c.store.Ensure(checkpoint.All...)
}

// Run collects job URLs, then harvests their details.
// The summary is returned even when the run stops early.
func (c *Crawler) Run(ctx context.Context, opts module.RunOptions) (*module.RunSummary, error) {
	summary := &module.RunSummary{
		RunID:     uuid.NewString(),
		Source:    c.Source(),
		StartedAt: time.Now(),
	}
	defer func() {
		summary.Duration = time.Since(summary.StartedAt)
	}()

	log.Printf("[GradConnection] Run %s started", summary.RunID)

	var urls *dedup.URLSet
	var err error
	if opts.FromCheckpoint {
		urls, err = c.loadURLs()
		if err != nil {
			return summary, err
		}
		log.Printf("[GradConnection] Loaded %d urls from checkpoint", urls.Len())
	} else {
		var stats PageStats
		urls, stats, err = c.paginator.Collect(ctx)
		summary.Pages = stats.Pages
		summary.PageFailures = stats.Failed
		summary.URLRows = stats.URLRows
		if err != nil {
			summary.UniqueURLs = urls.Len()
			summary.Interrupted = errors.Is(err, context.Canceled)
			return summary, fmt.Errorf("collect urls: %w", err)
		}
	}
	summary.UniqueURLs = urls.Len()

	var skip *dedup.URLSet
	if opts.SkipHarvested {
		if skip, err = c.harvestedURLs(); err != nil {
			return summary, err
		}
	}

	stats, err := c.harvester.Harvest(ctx, summary.RunID, urls, skip)
	summary.Details = stats.Succeeded
	summary.DetailFailures = stats.Failed
	summary.Skipped = stats.Skipped
	if err != nil {
		summary.Interrupted = errors.Is(err, context.Canceled)
		return summary, fmt.Errorf("harvest details: %w", err)
	}

	log.Printf("[GradConnection] Run %s finished: %d details, %d failures", summary.RunID, summary.Details, summary.DetailFailures)
	return summary, nil
}

// loadURLs rebuilds the URL set from the URL checkpoint
func (c *Crawler) loadURLs() (*dedup.URLSet, error) {
	rows, err := c.readData(checkpoint.JobURLs)
	if err != nil {
		return nil, err
	}
	urls := dedup.NewURLSet()
	for i, row := range rows {
		u, err := domain.JobURLFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", checkpoint.JobURLs, i+2, err)
		}
		urls.Add(u.URL)
	}
	return urls, nil
}

// harvestedURLs lists URLs that already have a committed detail row
func (c *Crawler) harvestedURLs() (*dedup.URLSet, error) {
	rows, err := c.readData(checkpoint.JobDetails)
	if err != nil {
		return nil, err
	}
	done := dedup.NewURLSet()
	for i, row := range rows {
		d, err := domain.JobDetailFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", checkpoint.JobDetails, i+2, err)
		}
		if d.URL != "" {
			done.Add(d.URL)
		}
	}
	return done, nil
}

// readData returns the rows after the header. A missing file has no rows.
func (c *Crawler) readData(name string) ([][]string, error) {
	rows, err := c.store.ReadAll(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}
