package extractor

import (
	"context"
	"time"

	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// Fetcher retrieves the raw markup of a page.
// Transport errors, timeouts and non-2xx statuses are all returned as errors;
// the caller decides how to record them.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor turns a job detail URL into a structured record
type Extractor interface {
	// Extract fetches and extracts a single job from the given URL
	Extract(ctx context.Context, url string) (*domain.JobDetail, error)

	// Name returns the name of this extractor
	Name() string
}

// ExtractorConfig holds common configuration for extractors
type ExtractorConfig struct {
	UserAgent string
	// Extra request headers sent with every fetch
	Headers  map[string]string
	Timeout  time.Duration
	ProxyURL string
}
