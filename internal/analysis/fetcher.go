package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
)

// FetcherConfig tunes the batched content fetcher.
type FetcherConfig struct {
	// BatchSize is both the partition size and the concurrency bound:
	// at most BatchSize fetches are in flight at once.
	BatchSize int

	// MaxFiles caps how many paths are fetched per run.
	MaxFiles int

	// MaxFileBytes is the per-file size ceiling; larger blobs are omitted.
	MaxFileBytes int

	// BatchDelay is the pause after every batch except the last, to respect
	// upstream rate limits.
	BatchDelay time.Duration
}

// DefaultFetcherConfig returns conservative production defaults.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		BatchSize:    10,
		MaxFiles:     50,
		MaxFileBytes: 100 * 1024,
		BatchDelay:   500 * time.Millisecond,
	}
}

// BatchedContentFetcher retrieves file contents for a filtered file set under
// concurrency and size limits. Batches run strictly sequentially; within a
// batch fetches run concurrently and results are keyed by path, so assembly
// is independent of completion order.
type BatchedContentFetcher struct {
	source port.ContentSource
	cfg    FetcherConfig
}

// NewBatchedContentFetcher creates a fetcher over the given content source.
func NewBatchedContentFetcher(source port.ContentSource, cfg FetcherConfig) *BatchedContentFetcher {
	def := DefaultFetcherConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = def.MaxFiles
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = def.MaxFileBytes
	}
	return &BatchedContentFetcher{source: source, cfg: cfg}
}

// FetchContents fetches the given paths at ref and returns path→content for
// successfully fetched, under-size files. Individual fetch failures and
// oversized blobs are logged and omitted, never fatal.
func (f *BatchedContentFetcher) FetchContents(ctx context.Context, ref domain.RepositoryRef, paths []string) (map[string]string, error) {
	if len(paths) > f.cfg.MaxFiles {
		paths = paths[:f.cfg.MaxFiles]
	}

	results := make(map[string]string, len(paths))
	var mu sync.Mutex

	for start := 0; start < len(paths); start += f.cfg.BatchSize {
		end := start + f.cfg.BatchSize
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[start:end]

		var wg sync.WaitGroup
		for _, p := range batch {
			wg.Add(1)
			go func(p string) {
				defer wg.Done()

				content, err := f.source.GetFileContent(ctx, ref, p)
				if err != nil {
					slog.Warn("fetch failed, skipping file",
						"repo", ref.FullName(), "branch", ref.Branch, "path", p, "error", err)
					return
				}
				if len(content) > f.cfg.MaxFileBytes {
					slog.Debug("file over size ceiling, skipping",
						"path", p, "size", len(content), "ceiling", f.cfg.MaxFileBytes)
					return
				}

				mu.Lock()
				results[p] = string(content)
				mu.Unlock()
			}(p)
		}
		wg.Wait()

		// Pause after every batch except the last.
		if end < len(paths) && f.cfg.BatchDelay > 0 {
			select {
			case <-time.After(f.cfg.BatchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return results, nil
}
