package port

import (
	"context"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// ContentSource abstracts the version-control content collaborator.
// Implementations talk to a hosting API (GitHub) and are responsible for the
// branch-fallback policy: a ref-scoped call against the default branch name
// that fails with a not-found condition is retried exactly once against the
// well-known alternate name; any other failure propagates immediately.
type ContentSource interface {
	// GetTree returns the flat file/directory listing at ref.
	GetTree(ctx context.Context, ref domain.RepositoryRef) ([]domain.TreeEntry, error)

	// GetFileContent returns a single blob's content at ref.
	// Returns ErrContentNotFound if the path is absent.
	GetFileContent(ctx context.Context, ref domain.RepositoryRef, path string) ([]byte, error)

	// GetReadme returns the repository README rendered as plain text, or ""
	// if the repository has none.
	GetReadme(ctx context.Context, ref domain.RepositoryRef) (string, error)

	// GetCommits returns up to limit commits reachable from ref, newest first.
	GetCommits(ctx context.Context, ref domain.RepositoryRef, limit int) ([]domain.CommitInfo, error)

	// GetPullRequests returns up to limit pull requests in the given state
	// ("open", "closed", "all"), newest first.
	GetPullRequests(ctx context.Context, ref domain.RepositoryRef, state string, limit int) ([]domain.PullRequestInfo, error)
}
