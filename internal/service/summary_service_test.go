package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/gitfolio-ai/internal/analysis"
	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
	"github.com/arturoeanton/gitfolio-ai/internal/summarize"
)

// stubSource serves a fixed repository snapshot through port.ContentSource.
type stubSource struct {
	tree     []domain.TreeEntry
	files    map[string]string
	readme   string
	commits  []domain.CommitInfo
	prs      []domain.PullRequestInfo
	treeErr  error
	fetchErr error
}

func (s *stubSource) GetTree(context.Context, domain.RepositoryRef) ([]domain.TreeEntry, error) {
	return s.tree, s.treeErr
}

func (s *stubSource) GetFileContent(_ context.Context, _ domain.RepositoryRef, path string) ([]byte, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	content, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrContentNotFound, path)
	}
	return []byte(content), nil
}

func (s *stubSource) GetReadme(context.Context, domain.RepositoryRef) (string, error) {
	return s.readme, nil
}

func (s *stubSource) GetCommits(_ context.Context, _ domain.RepositoryRef, limit int) ([]domain.CommitInfo, error) {
	if len(s.commits) > limit {
		return s.commits[:limit], nil
	}
	return s.commits, nil
}

func (s *stubSource) GetPullRequests(_ context.Context, _ domain.RepositoryRef, _ string, limit int) ([]domain.PullRequestInfo, error) {
	if len(s.prs) > limit {
		return s.prs[:limit], nil
	}
	return s.prs, nil
}

type stubRegistry struct {
	repos map[string]*domain.Repository
}

func (r *stubRegistry) RepoExists(_ context.Context, repoID string) (bool, error) {
	for _, repo := range r.repos {
		if repo.ID == repoID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRegistry) FindRepo(_ context.Context, owner, name string) (*domain.Repository, error) {
	repo, ok := r.repos[owner+"/"+name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", port.ErrRepoNotFound, owner, name)
	}
	return repo, nil
}

type memoryStore struct {
	summaries map[string]*domain.PersistedSummary
	upserts   int
	upsertErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{summaries: make(map[string]*domain.PersistedSummary)}
}

func (m *memoryStore) UpsertSummary(_ context.Context, repoID, branch string, draft domain.SummaryDraft) (string, error) {
	if m.upsertErr != nil {
		return "", m.upsertErr
	}
	m.upserts++
	key := repoID + "/" + branch
	existing, ok := m.summaries[key]
	if ok {
		existing.Draft = draft
		existing.UpdatedAt = time.Now()
		return existing.ID, nil
	}
	id := fmt.Sprintf("summary-%d", len(m.summaries)+1)
	m.summaries[key] = &domain.PersistedSummary{
		ID: id, RepoID: repoID, Branch: branch, Draft: draft,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	return id, nil
}

func (m *memoryStore) GetSummary(_ context.Context, repoID, branch string) (*domain.PersistedSummary, error) {
	summary, ok := m.summaries[repoID+"/"+branch]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", port.ErrSummaryNotFound, repoID, branch)
	}
	return summary, nil
}

type scriptedCompleter struct {
	response string
	err      error
	calls    int
}

func (c *scriptedCompleter) ModelName() string { return "scripted" }

func (c *scriptedCompleter) Complete(context.Context, string, int) (string, error) {
	c.calls++
	return c.response, c.err
}

const scriptedResponse = `## 1. Project Introduction
A small task tracker.

## 2. Tech Stack
Node.js with Express.

## 3. Architecture
REST API over Postgres.

## 4. Refactoring History
Migrated to TypeScript.

## 5. Collaboration Flow
PR-based review.

## 6. Resume Bullets
Achievement 1: API: Built the core REST API.
`

func trackerSource() *stubSource {
	return &stubSource{
		tree: []domain.TreeEntry{
			{Path: "package.json", Kind: domain.TreeEntryFile, Size: 120},
			{Path: "src", Kind: domain.TreeEntryDirectory},
			{Path: "src/index.js", Kind: domain.TreeEntryFile, Size: 400},
			{Path: "src/index.test.js", Kind: domain.TreeEntryFile, Size: 300},
			{Path: "node_modules/express/index.js", Kind: domain.TreeEntryFile, Size: 9000},
			{Path: "node_modules/react/package.json", Kind: domain.TreeEntryFile, Size: 80},
		},
		files: map[string]string{
			"package.json":                    `{"dependencies":{"express":"4.18.0"},"devDependencies":{"jest":"29.0.0"}}`,
			"node_modules/react/package.json": `{"dependencies":{"react":"18.2.0"}}`,
		},
		readme:  "# Tracker\nA task tracker.",
		commits: []domain.CommitInfo{{Hash: "abc", Message: "feat: init", Author: "alice"}},
		prs:     []domain.PullRequestInfo{{Number: 1, Title: "Bootstrap", State: "merged"}},
	}
}

func newTestService(source *stubSource, completer *scriptedCompleter, store *memoryStore) (*SummaryService, *stubRegistry) {
	registry := &stubRegistry{repos: map[string]*domain.Repository{
		"acme/tracker": {ID: "repo-1", Owner: "acme", Name: "tracker", DefaultBranch: "main"},
	}}
	fetcher := analysis.NewBatchedContentFetcher(source, analysis.FetcherConfig{
		BatchSize: 5, MaxFiles: 50, MaxFileBytes: 100 * 1024,
	})
	composer := summarize.NewSummaryComposer(completer, 0)
	return NewSummaryService(source, registry, store, fetcher, composer), registry
}

func analyzeRef() domain.RepositoryRef {
	return domain.RepositoryRef{Owner: "acme", Name: "tracker", Branch: "main"}
}

func TestAnalyzeBranch_FullPipeline(t *testing.T) {
	store := newMemoryStore()
	completer := &scriptedCompleter{response: scriptedResponse}
	svc, _ := newTestService(trackerSource(), completer, store)

	outcome, err := svc.AnalyzeBranch(context.Background(), analyzeRef())
	require.NoError(t, err)

	assert.Equal(t, "repo-1", outcome.RepoID)
	assert.Equal(t, "main", outcome.Branch)
	assert.NotEmpty(t, outcome.SummaryID)

	draft := outcome.Draft
	assert.Equal(t, "A small task tracker.", draft.ProjectIntro)
	assert.Contains(t, draft.TechStack.Backend, "Express.js")
	assert.Contains(t, draft.TechStack.Testing, "Jest")
	// The vendored manifest under node_modules is never fetched, so its
	// dependencies never reach the profile.
	assert.NotContains(t, draft.TechStack.Detected, "React")
	require.NotEmpty(t, draft.ResumeBullets)
	assert.Equal(t, "API", draft.ResumeBullets[0].Title)

	// Metrics reflect the actual run, vendored paths excluded.
	assert.Equal(t, 1, draft.Metrics.CommitsAnalyzed)
	assert.Equal(t, 1, draft.Metrics.PRsAnalyzed)
	assert.Equal(t, 3, draft.Metrics.FilesAnalyzed)
	assert.Equal(t, 1, draft.Metrics.FilesFetched)
	assert.Positive(t, draft.Metrics.PromptChars)
	assert.Positive(t, draft.Metrics.ResponseChars)

	// The run persisted exactly what it returned.
	stored, err := store.GetSummary(context.Background(), "repo-1", "main")
	require.NoError(t, err)
	assert.Equal(t, draft, stored.Draft)
}

func TestAnalyzeBranch_UnregisteredRepoFailsBeforeAnyWork(t *testing.T) {
	store := newMemoryStore()
	completer := &scriptedCompleter{response: scriptedResponse}
	svc, _ := newTestService(trackerSource(), completer, store)

	ref := domain.RepositoryRef{Owner: "acme", Name: "ghost", Branch: "main"}
	_, err := svc.AnalyzeBranch(context.Background(), ref)

	assert.ErrorIs(t, err, port.ErrRepoNotFound)
	assert.Zero(t, completer.calls)
	assert.Zero(t, store.upserts)
}

func TestAnalyzeBranch_CompletionFailureWritesNothing(t *testing.T) {
	store := newMemoryStore()
	completer := &scriptedCompleter{err: errors.New("model down")}
	svc, _ := newTestService(trackerSource(), completer, store)

	_, err := svc.AnalyzeBranch(context.Background(), analyzeRef())

	assert.ErrorIs(t, err, port.ErrCompletionFailed)
	assert.Zero(t, store.upserts)
}

func TestAnalyzeBranch_TreeFailureAborts(t *testing.T) {
	source := trackerSource()
	source.treeErr = fmt.Errorf("%w: get tree", port.ErrRefNotFound)
	store := newMemoryStore()
	completer := &scriptedCompleter{response: scriptedResponse}
	svc, _ := newTestService(source, completer, store)

	_, err := svc.AnalyzeBranch(context.Background(), analyzeRef())

	assert.ErrorIs(t, err, port.ErrRefNotFound)
	assert.Zero(t, completer.calls)
	assert.Zero(t, store.upserts)
}

func TestAnalyzeBranch_FetchFailuresDegrade(t *testing.T) {
	source := trackerSource()
	source.fetchErr = errors.New("transient 502")
	store := newMemoryStore()
	completer := &scriptedCompleter{response: scriptedResponse}
	svc, _ := newTestService(source, completer, store)

	outcome, err := svc.AnalyzeBranch(context.Background(), analyzeRef())
	require.NoError(t, err)

	// No manifest content reached detection, so nothing was detected, but
	// the run still completed and persisted.
	assert.Empty(t, outcome.Draft.TechStack.Detected)
	assert.Zero(t, outcome.Draft.Metrics.FilesFetched)
	assert.Equal(t, 1, store.upserts)
}

func TestAnalyzeBranch_RerunUpdatesSameSummary(t *testing.T) {
	store := newMemoryStore()
	completer := &scriptedCompleter{response: scriptedResponse}
	svc, _ := newTestService(trackerSource(), completer, store)

	first, err := svc.AnalyzeBranch(context.Background(), analyzeRef())
	require.NoError(t, err)

	completer.response = strings.Replace(scriptedResponse,
		"A small task tracker.", "A refreshed task tracker.", 1)
	second, err := svc.AnalyzeBranch(context.Background(), analyzeRef())
	require.NoError(t, err)

	assert.Equal(t, first.SummaryID, second.SummaryID)
	assert.Equal(t, "A refreshed task tracker.", second.Draft.ProjectIntro)
	assert.Len(t, store.summaries, 1)
}

func TestGetSummary(t *testing.T) {
	store := newMemoryStore()
	completer := &scriptedCompleter{response: scriptedResponse}
	svc, _ := newTestService(trackerSource(), completer, store)

	_, err := svc.AnalyzeBranch(context.Background(), analyzeRef())
	require.NoError(t, err)

	summary, err := svc.GetSummary(context.Background(), "acme", "tracker", "main")
	require.NoError(t, err)
	assert.Equal(t, "repo-1", summary.RepoID)
	assert.Equal(t, "A small task tracker.", summary.Draft.ProjectIntro)

	_, err = svc.GetSummary(context.Background(), "acme", "tracker", "feature")
	assert.ErrorIs(t, err, port.ErrSummaryNotFound)

	_, err = svc.GetSummary(context.Background(), "acme", "ghost", "main")
	assert.ErrorIs(t, err, port.ErrRepoNotFound)
}
