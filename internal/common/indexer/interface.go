package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// Indexer defines the interface for job indexing backends
type Indexer interface {
	// BulkIndex indexes multiple jobs at once. Re-indexing the same URL replaces the earlier copy.
	BulkIndex(ctx context.Context, jobs []*domain.JobDetail) error
	Close() error
}

// DocumentID is the stable identifier of a job across backends
func DocumentID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
