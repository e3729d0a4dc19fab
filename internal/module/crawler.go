package module

import (
	"context"
	"time"

	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// Mode decides what happens to checkpoints left by a previous run
type Mode int

const (
	// ModeResume keeps existing checkpoints and appends to them
	ModeResume Mode = iota
	// ModeReset truncates every checkpoint before crawling
	ModeReset
)

func (m Mode) String() string {
	if m == ModeReset {
		return "reset"
	}
	return "resume"
}

// RunOptions tweak a single crawl
type RunOptions struct {
	// Read the URL set from the URL checkpoint instead of paginating
	FromCheckpoint bool
	// Do not re-extract URLs already present in the details checkpoint
	SkipHarvested bool
}

// RunSummary reports what a crawl wrote
type RunSummary struct {
	RunID          string
	Source         domain.JobSource
	Pages          int
	PageFailures   int
	URLRows        int
	UniqueURLs     int
	Details        int
	DetailFailures int
	Skipped        int
	StartedAt      time.Time
	Duration       time.Duration
	Interrupted    bool
}

// Crawler is the common interface for job crawlers
type Crawler interface {
	// Prepare clears or keeps the checkpoints of a previous run
	Prepare(mode Mode) error
	// Run paginates the listing, then harvests every discovered job
	Run(ctx context.Context, opts RunOptions) (*RunSummary, error)
	// Source returns the source identifier
	Source() domain.JobSource
}
