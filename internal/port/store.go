package port

import (
	"context"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// RepoRegistry is the read side of the repository registry, used as a
// precondition check before persisting a summary.
type RepoRegistry interface {
	// RepoExists reports whether the repository is registered.
	RepoExists(ctx context.Context, repoID string) (bool, error)

	// FindRepo resolves a registered repository by owner and name.
	// Returns ErrRepoNotFound if absent.
	FindRepo(ctx context.Context, owner, name string) (*domain.Repository, error)
}

// RepoAdmin is the write side of the repository registry.
type RepoAdmin interface {
	// RegisterRepo registers a repository or refreshes its default branch
	// when the (owner, name) pair already exists.
	RegisterRepo(ctx context.Context, owner, name, defaultBranch string) (*domain.Repository, error)

	// ListRepos returns all registered repositories.
	ListRepos(ctx context.Context) ([]domain.Repository, error)
}

// SummaryStore persists typed summaries keyed by (repository, branch).
type SummaryStore interface {
	// UpsertSummary writes the draft for (repoID, branch), overwriting any
	// previous row for the same key, and returns the summary id.
	// Fails with ErrRepoNotFound if repoID is not registered.
	UpsertSummary(ctx context.Context, repoID, branch string, draft domain.SummaryDraft) (string, error)

	// GetSummary returns the stored summary for (repoID, branch).
	// Returns ErrSummaryNotFound if none exists.
	GetSummary(ctx context.Context, repoID, branch string) (*domain.PersistedSummary, error)
}
