package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

var testRef = domain.RepositoryRef{Owner: "acme", Name: "widgets", Branch: "main"}

// fakeContentSource implements port.ContentSource for fetcher tests.
type fakeContentSource struct {
	mu        sync.Mutex
	contents  map[string][]byte
	failPaths map[string]bool
	delay     time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
}

func (f *fakeContentSource) GetFileContent(ctx context.Context, ref domain.RepositoryRef, path string) ([]byte, error) {
	f.calls.Add(1)
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		prev := f.maxInFlight.Load()
		if current <= prev || f.maxInFlight.CompareAndSwap(prev, current) {
			break
		}
	}

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPaths[path] {
		return nil, fmt.Errorf("boom: %s", path)
	}
	content, ok := f.contents[path]
	if !ok {
		return nil, fmt.Errorf("missing: %s", path)
	}
	return content, nil
}

func (f *fakeContentSource) GetTree(context.Context, domain.RepositoryRef) ([]domain.TreeEntry, error) {
	return nil, nil
}
func (f *fakeContentSource) GetReadme(context.Context, domain.RepositoryRef) (string, error) {
	return "", nil
}
func (f *fakeContentSource) GetCommits(context.Context, domain.RepositoryRef, int) ([]domain.CommitInfo, error) {
	return nil, nil
}
func (f *fakeContentSource) GetPullRequests(context.Context, domain.RepositoryRef, string, int) ([]domain.PullRequestInfo, error) {
	return nil, nil
}

func sourceWithFiles(n int) *fakeContentSource {
	contents := make(map[string][]byte, n)
	for i := 0; i < n; i++ {
		contents[fmt.Sprintf("file%02d.go", i)] = []byte("package main")
	}
	return &fakeContentSource{contents: contents}
}

func pathsOf(n int) []string {
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		paths[i] = fmt.Sprintf("file%02d.go", i)
	}
	return paths
}

func TestFetchContents_AllSucceed(t *testing.T) {
	source := sourceWithFiles(7)
	fetcher := NewBatchedContentFetcher(source, FetcherConfig{BatchSize: 3, BatchDelay: time.Millisecond})

	results, err := fetcher.FetchContents(context.Background(), testRef, pathsOf(7))
	require.NoError(t, err)
	assert.Len(t, results, 7)
	assert.Equal(t, "package main", results["file03.go"])
}

func TestFetchContents_ConcurrencyBoundedByBatchSize(t *testing.T) {
	source := sourceWithFiles(20)
	source.delay = 10 * time.Millisecond

	fetcher := NewBatchedContentFetcher(source, FetcherConfig{BatchSize: 4, BatchDelay: time.Millisecond})

	_, err := fetcher.FetchContents(context.Background(), testRef, pathsOf(20))
	require.NoError(t, err)
	assert.LessOrEqual(t, source.maxInFlight.Load(), int32(4))
}

func TestFetchContents_FailuresAreSkippedNotFatal(t *testing.T) {
	source := sourceWithFiles(6)
	source.failPaths = map[string]bool{"file01.go": true, "file04.go": true}

	fetcher := NewBatchedContentFetcher(source, FetcherConfig{BatchSize: 3, BatchDelay: time.Millisecond})

	results, err := fetcher.FetchContents(context.Background(), testRef, pathsOf(6))
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.NotContains(t, results, "file01.go")
	assert.NotContains(t, results, "file04.go")
}

func TestFetchContents_OversizedFilesOmitted(t *testing.T) {
	source := &fakeContentSource{contents: map[string][]byte{
		"small.go": []byte("ok"),
		"huge.go":  []byte(strings.Repeat("x", 2048)),
	}}

	fetcher := NewBatchedContentFetcher(source, FetcherConfig{
		BatchSize: 2, MaxFileBytes: 1024, BatchDelay: time.Millisecond,
	})

	results, err := fetcher.FetchContents(context.Background(), testRef, []string{"small.go", "huge.go"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"small.go": "ok"}, results)
}

func TestFetchContents_MaxFilesCap(t *testing.T) {
	source := sourceWithFiles(30)
	fetcher := NewBatchedContentFetcher(source, FetcherConfig{
		BatchSize: 10, MaxFiles: 12, BatchDelay: time.Millisecond,
	})

	results, err := fetcher.FetchContents(context.Background(), testRef, pathsOf(30))
	require.NoError(t, err)
	assert.Len(t, results, 12)
	assert.Equal(t, int32(12), source.calls.Load())
}

func TestFetchContents_CancelledContext(t *testing.T) {
	source := sourceWithFiles(20)
	fetcher := NewBatchedContentFetcher(source, FetcherConfig{
		BatchSize: 5, BatchDelay: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := fetcher.FetchContents(ctx, testRef, pathsOf(20))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchContents_Empty(t *testing.T) {
	fetcher := NewBatchedContentFetcher(sourceWithFiles(0), FetcherConfig{BatchSize: 5})

	results, err := fetcher.FetchContents(context.Background(), testRef, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
