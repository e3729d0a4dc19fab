package gradconnection

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/project-tktt/gradconnection-crawler/internal/checkpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *checkpoint.Store {
	t.Helper()
	store, err := checkpoint.NewStore(t.TempDir(), "gradconnection-")
	require.NoError(t, err)
	return store
}

// readRows returns the data rows of a checkpoint; a missing or empty file has none
func readRows(t *testing.T, store *checkpoint.Store, name string) [][]string {
	t.Helper()
	rows, err := store.ReadAll(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

func testConfig(start, end int) Config {
	return Config{
		BaseURL:   testBaseURL,
		Domain:    testDomain,
		PageQuery: PageQuery,
		PageStart: start,
		PageEnd:   end,
	}
}

func TestPaginator_CollectUnionAcrossPages(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		testBaseURL:             listingHTML("/a", "/b"),
		testBaseURL + "?page=2": listingHTML("/b", "/c"),
		testBaseURL + "?page=3": listingHTML("/d"),
	}}
	store := newTestStore(t)
	require.NoError(t, store.Reset(checkpoint.All...))

	urls, stats, err := NewPaginator(fetcher, store, testConfig(1, 3)).Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, urls.Len())
	assert.Equal(t, []string{
		testDomain + "/a", testDomain + "/b", testDomain + "/c", testDomain + "/d",
	}, urls.Sorted())
	assert.Equal(t, PageStats{Pages: 3, Failed: 0, URLRows: 5}, stats)
	assert.Equal(t, []string{testBaseURL, testBaseURL + "?page=2", testBaseURL + "?page=3"}, fetcher.calls)

	rows := readRows(t, store, checkpoint.JobURLs)
	assert.Equal(t, [][]string{
		{"1", testDomain + "/a"},
		{"1", testDomain + "/b"},
		{"2", testDomain + "/b"},
		{"2", testDomain + "/c"},
		{"3", testDomain + "/d"},
	}, rows)
	assert.Empty(t, readRows(t, store, checkpoint.JobURLsFailed))
}

func TestPaginator_FailedPageIsRecordedAndSkipped(t *testing.T) {
	failing := testBaseURL + "?page=2"
	fetcher := &stubFetcher{
		pages: map[string]string{
			testBaseURL:             listingHTML("/a"),
			testBaseURL + "?page=3": listingHTML("/c"),
		},
		fail: map[string]bool{failing: true},
	}
	store := newTestStore(t)

	urls, stats, err := NewPaginator(fetcher, store, testConfig(1, 3)).Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, urls.Len())
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, [][]string{{"2", failing}}, readRows(t, store, checkpoint.JobURLsFailed))
	assert.Len(t, readRows(t, store, checkpoint.JobURLs), 2)
}

func TestPaginator_EmptyPagesDoNotStopTheRange(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		testBaseURL + "?page=4": listingHTML("/late"),
	}}
	store := newTestStore(t)

	urls, stats, err := NewPaginator(fetcher, store, testConfig(1, 4)).Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, stats.Pages)
	assert.True(t, urls.Has(testDomain+"/late"))
}

func TestPaginator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := &stubFetcher{}

	urls, stats, err := NewPaginator(fetcher, newTestStore(t), testConfig(1, 3)).Collect(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, urls.Len())
	assert.Equal(t, 0, stats.Pages)
	assert.Empty(t, fetcher.calls)
}

func TestPaginator_CheckpointWriteErrorAborts(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		testBaseURL: listingHTML("/a"),
	}}

	_, _, err := NewPaginator(fetcher, failingAppender{}, testConfig(1, 3)).Collect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, fetcher.calls, 1)
}
