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

// DetailSink receives every detail after it is committed to the checkpoint
type DetailSink interface {
	Publish(ctx context.Context, msg *domain.JobMessage) error
}

// ProgressFunc is called after each URL is attempted
type ProgressFunc func(done, total int)

// HarvestStats counts what the detail harvest wrote
type HarvestStats struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
}

// Harvester extracts every job in a URL set, one at a time, committing each result immediately
type Harvester struct {
	extractor  extractor.Extractor
	store      Appender
	sink       DetailSink
	onProgress ProgressFunc
}

// NewHarvester creates a detail harvester. sink may be nil.
func NewHarvester(ext extractor.Extractor, store Appender, sink DetailSink) *Harvester {
	return &Harvester{
		extractor: ext,
		store:     store,
		sink:      sink,
	}
}

// OnProgress registers a progress callback
func (h *Harvester) OnProgress(fn ProgressFunc) {
	h.onProgress = fn
}

// Harvest attempts each URL of the set exactly once, in lexicographic order.
// URLs in skip are counted but not extracted. A failing job is recorded and
// the harvest moves on; only checkpoint write errors and cancellation stop it.
func (h *Harvester) Harvest(ctx context.Context, runID string, urls, skip *dedup.URLSet) (HarvestStats, error) {
	var stats HarvestStats
	ordered := urls.Sorted()
	total := len(ordered)

	for i, url := range ordered {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if skip != nil && skip.Has(url) {
			stats.Skipped++
			h.progress(i+1, total)
			continue
		}

		log.Printf("[GradConnection] Fetching job details (%d/%d), URL = %s", i+1, total, url)
		stats.Attempted++

		detail, err := h.extract(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			log.Printf("[GradConnection] Failed to scrape %s. %v", url, err)
			stats.Failed++
			failure := domain.DetailFailure{URL: url, Err: err.Error()}
			if err := h.store.Append(checkpoint.JobDetailsFail, domain.DetailFailureHeader, [][]string{failure.Row()}); err != nil {
				return stats, fmt.Errorf("record failed job %s: %w", url, err)
			}
			h.progress(i+1, total)
			continue
		}

		if err := h.store.Append(checkpoint.JobDetails, domain.JobDetailHeader, [][]string{detail.Row()}); err != nil {
			return stats, fmt.Errorf("record job %s: %w", url, err)
		}
		stats.Succeeded++

		if h.sink != nil {
			msg := &domain.JobMessage{
				RunID:       runID,
				Source:      domain.SourceGradConnection,
				Detail:      detail,
				PublishedAt: time.Now(),
			}
			if err := h.sink.Publish(ctx, msg); err != nil {
				log.Printf("[GradConnection] Publish error for %s: %v", url, err)
			}
		}

		h.progress(i+1, total)
	}

	return stats, nil
}

// extract turns a panic inside the browser stack into an ordinary failure for this URL
func (h *Harvester) extract(ctx context.Context, url string) (detail *domain.JobDetail, err error) {
	defer func() {
		if r := recover(); r != nil {
			detail, err = nil, fmt.Errorf("extractor panic: %v", r)
		}
	}()

	detail, err = h.extractor.Extract(ctx, url)
	if err == nil && detail == nil {
		err = fmt.Errorf("extractor %s returned no detail", h.extractor.Name())
	}
	return detail, err
}

func (h *Harvester) progress(done, total int) {
	if h.onProgress != nil {
		h.onProgress(done, total)
	}
}
