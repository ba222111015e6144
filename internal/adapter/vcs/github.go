package vcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
)

// Branch fallback policy: only the well-known default name falls back, and
// only to the single well-known alternate, exactly once.
const (
	DefaultBranchName   = "main"
	AlternateBranchName = "master"
)

// requestsPerSecond paces GitHub API calls well under the authenticated
// REST quota (5000/hour).
const requestsPerSecond = 5

// GitHubProvider implements port.ContentSource against the GitHub REST API.
type GitHubProvider struct {
	client  *github.Client
	limiter *rate.Limiter
}

// NewGitHubProvider creates a provider authenticated with the given token.
func NewGitHubProvider(token string) *GitHubProvider {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	return &GitHubProvider{
		client:  github.NewClient(httpClient),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// GetTree returns the flat listing of files and directories at ref.
func (g *GitHubProvider) GetTree(ctx context.Context, ref domain.RepositoryRef) ([]domain.TreeEntry, error) {
	return withBranchFallback(ctx, ref, func(ctx context.Context, ref domain.RepositoryRef) ([]domain.TreeEntry, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		tree, _, err := g.client.Git.GetTree(ctx, ref.Owner, ref.Name, ref.Branch, true)
		if err != nil {
			return nil, g.mapError("get tree", ref, err)
		}

		entries := make([]domain.TreeEntry, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			kind := domain.TreeEntryFile
			if e.GetType() == "tree" {
				kind = domain.TreeEntryDirectory
			}
			entries = append(entries, domain.TreeEntry{
				Path: e.GetPath(),
				Kind: kind,
				Size: int64(e.GetSize()),
			})
		}
		return entries, nil
	})
}

// GetFileContent returns a single blob's content at ref.
func (g *GitHubProvider) GetFileContent(ctx context.Context, ref domain.RepositoryRef, path string) ([]byte, error) {
	return withBranchFallback(ctx, ref, func(ctx context.Context, ref domain.RepositoryRef) ([]byte, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		file, _, _, err := g.client.Repositories.GetContents(ctx, ref.Owner, ref.Name, path,
			&github.RepositoryContentGetOptions{Ref: ref.Branch})
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("%w: %s@%s", port.ErrContentNotFound, path, ref.Branch)
			}
			return nil, fmt.Errorf("get file content %s: %w", path, err)
		}
		if file == nil {
			return nil, fmt.Errorf("%w: %s is a directory", port.ErrContentNotFound, path)
		}

		content, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("decode file content %s: %w", path, err)
		}
		return []byte(content), nil
	})
}

// GetReadme returns the repository README as text, or "" when neither the
// ref nor its fallback branch has one. The 404 must surface as an error from
// the inner call so the branch fallback still fires; it becomes a benign
// empty result only after both branches miss.
func (g *GitHubProvider) GetReadme(ctx context.Context, ref domain.RepositoryRef) (string, error) {
	content, err := withBranchFallback(ctx, ref, func(ctx context.Context, ref domain.RepositoryRef) (string, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}

		readme, _, err := g.client.Repositories.GetReadme(ctx, ref.Owner, ref.Name,
			&github.RepositoryContentGetOptions{Ref: ref.Branch})
		if err != nil {
			if isNotFound(err) {
				return "", fmt.Errorf("%w: readme@%s", port.ErrContentNotFound, ref.Branch)
			}
			return "", fmt.Errorf("get readme: %w", err)
		}

		text, err := readme.GetContent()
		if err != nil {
			return "", fmt.Errorf("decode readme: %w", err)
		}
		return text, nil
	})
	if errors.Is(err, port.ErrContentNotFound) {
		return "", nil
	}
	return content, err
}

// GetCommits returns up to limit commits reachable from ref, newest first.
func (g *GitHubProvider) GetCommits(ctx context.Context, ref domain.RepositoryRef, limit int) ([]domain.CommitInfo, error) {
	return withBranchFallback(ctx, ref, func(ctx context.Context, ref domain.RepositoryRef) ([]domain.CommitInfo, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		commits, _, err := g.client.Repositories.ListCommits(ctx, ref.Owner, ref.Name,
			&github.CommitsListOptions{
				SHA:         ref.Branch,
				ListOptions: github.ListOptions{PerPage: limit},
			})
		if err != nil {
			return nil, g.mapError("list commits", ref, err)
		}

		infos := make([]domain.CommitInfo, 0, len(commits))
		for _, c := range commits {
			info := domain.CommitInfo{
				Hash:    c.GetSHA(),
				Message: c.GetCommit().GetMessage(),
			}
			if author := c.GetCommit().GetAuthor(); author != nil {
				info.Author = author.GetName()
				info.Timestamp = author.GetDate().Time
			}
			infos = append(infos, info)
		}
		return infos, nil
	})
}

// GetPullRequests returns up to limit pull requests in the given state.
// PR listings are repository-scoped on GitHub, so no branch fallback applies.
func (g *GitHubProvider) GetPullRequests(ctx context.Context, ref domain.RepositoryRef, state string, limit int) ([]domain.PullRequestInfo, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if state == "" {
		state = "all"
	}

	prs, _, err := g.client.PullRequests.List(ctx, ref.Owner, ref.Name,
		&github.PullRequestListOptions{
			State:       state,
			Sort:        "created",
			Direction:   "desc",
			ListOptions: github.ListOptions{PerPage: limit},
		})
	if err != nil {
		return nil, fmt.Errorf("list pull requests %s: %w", ref.FullName(), err)
	}

	infos := make([]domain.PullRequestInfo, 0, len(prs))
	for _, pr := range prs {
		infos = append(infos, domain.PullRequestInfo{
			Number: pr.GetNumber(),
			Title:  pr.GetTitle(),
			Body:   pr.GetBody(),
			State:  pr.GetState(),
		})
	}
	return infos, nil
}

// withBranchFallback runs a ref-scoped call with the explicit two-step retry
// policy: primary call, then at most one retry against the alternate branch
// name, and only when the primary ref was the default name and failed with a
// not-found condition. Never recursive, never more than one retry.
func withBranchFallback[T any](ctx context.Context, ref domain.RepositoryRef,
	call func(context.Context, domain.RepositoryRef) (T, error)) (T, error) {

	out, err := call(ctx, ref)
	if err == nil || ref.Branch != DefaultBranchName || !isNotFoundErr(err) {
		return out, err
	}

	alt := ref
	alt.Branch = AlternateBranchName
	return call(ctx, alt)
}

// mapError turns a GitHub 404 into the typed ref-not-found error so the
// fallback policy and callers can react; everything else is wrapped as-is.
func (g *GitHubProvider) mapError(op string, ref domain.RepositoryRef, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s %s@%s", port.ErrRefNotFound, op, ref.FullName(), ref.Branch)
	}
	return fmt.Errorf("%s %s@%s: %w", op, ref.FullName(), ref.Branch, err)
}

// isNotFound reports whether err is a GitHub API 404 or 422 (unknown ref).
func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		code := ghErr.Response.StatusCode
		return code == http.StatusNotFound || code == http.StatusUnprocessableEntity
	}
	return false
}

// isNotFoundErr covers both raw GitHub 404s and already-mapped sentinels.
func isNotFoundErr(err error) bool {
	return errors.Is(err, port.ErrRefNotFound) ||
		errors.Is(err, port.ErrContentNotFound) ||
		isNotFound(err)
}
