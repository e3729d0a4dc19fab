package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/project-tktt/gradconnection-crawler/internal/common/cleaner"
	"github.com/project-tktt/gradconnection-crawler/internal/common/indexer"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// BatchConsumer is the queue side the worker drains
type BatchConsumer interface {
	ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.JobMessage, error)
}

// Worker processes harvested jobs from the queue and indexes them to storage
type Worker struct {
	consumer BatchConsumer
	cleaner  *cleaner.Cleaner
	indexers []indexer.Indexer

	batchSize   int
	concurrency int
}

// Config holds worker configuration
type Config struct {
	Concurrency int
	BatchSize   int
}

// NewWorker creates a new worker. Every batch goes to each indexer.
func NewWorker(
	consumer BatchConsumer,
	clean *cleaner.Cleaner,
	idx []indexer.Indexer,
	cfg Config,
) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	return &Worker{
		consumer:    consumer,
		cleaner:     clean,
		indexers:    idx,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
	}
}

// Run starts the worker pool and blocks until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	log.Printf("[Worker] Starting pool with %d workers, %d indexers", w.concurrency, len(w.indexers))

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.runSingle(ctx, workerID)
		}(i)
	}

	wg.Wait()
	return ctx.Err()
}

func (w *Worker) runSingle(ctx context.Context, workerID int) {
	log.Printf("[Worker] %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Worker] %d stopping", workerID)
			return
		default:
		}

		// A batch can come back partly filled together with an error;
		// whatever was popped is off the queue and must still be indexed
		msgs, err := w.consumer.ConsumeBatch(ctx, w.batchSize)
		if err != nil && ctx.Err() == nil {
			log.Printf("[Worker] %d consume error: %v", workerID, err)
		}

		if len(msgs) == 0 {
			continue
		}

		if err := w.ProcessBatch(context.WithoutCancel(ctx), msgs); err != nil {
			log.Printf("[Worker] %d index error: %v", workerID, err)
		} else {
			log.Printf("[Worker] %d indexed %d jobs", workerID, len(msgs))
		}
	}
}

// ProcessBatch cleans a batch and sends it to every indexer.
// All indexers are attempted; their errors are joined.
func (w *Worker) ProcessBatch(ctx context.Context, msgs []*domain.JobMessage) error {
	jobs := w.prepare(msgs)
	if len(jobs) == 0 {
		return nil
	}

	var errs []error
	for _, idx := range w.indexers {
		if err := idx.BulkIndex(ctx, jobs); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", idx, err))
		}
	}
	return errors.Join(errs...)
}

// prepare keeps the latest message per URL and normalises its text fields
func (w *Worker) prepare(msgs []*domain.JobMessage) []*domain.JobDetail {
	latest := make(map[string]int, len(msgs))
	jobs := make([]*domain.JobDetail, 0, len(msgs))

	for _, msg := range msgs {
		if msg == nil || msg.Detail == nil || msg.Detail.URL == "" {
			continue
		}
		d := *msg.Detail
		d.EmployerTitle = w.cleaner.CleanToText(d.EmployerTitle)
		d.JobTitle = w.cleaner.CleanToText(d.JobTitle)
		d.JobDescription = w.cleaner.CleanToText(d.JobDescription)
		d.AISummary = w.cleanOptional(d.AISummary)
		if d.ScrapedAt.IsZero() {
			d.ScrapedAt = msg.PublishedAt
		}

		if i, ok := latest[d.URL]; ok {
			jobs[i] = &d
			continue
		}
		latest[d.URL] = len(jobs)
		jobs = append(jobs, &d)
	}

	return jobs
}

func (w *Worker) cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	text := w.cleaner.CleanToText(*s)
	if text == "" {
		return nil
	}
	return &text
}
