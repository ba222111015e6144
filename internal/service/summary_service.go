package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arturoeanton/gitfolio-ai/internal/analysis"
	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
	"github.com/arturoeanton/gitfolio-ai/internal/summarize"
)

// Input limits for one analysis run.
const (
	commitLimit      = 20
	pullRequestLimit = 10
)

// SummaryService runs the repository analysis pipeline end to end: tree
// ingestion, classification, batched content fetch, tech-stack detection,
// summary composition, section extraction, and persistence.
//
// One run builds fresh profiles from scratch and either persists a complete
// draft or persists nothing. Per-item fetch failures degrade the draft;
// collaborator failures abort the run before any write.
type SummaryService struct {
	source   port.ContentSource
	registry port.RepoRegistry
	store    port.SummaryStore
	fetcher  *analysis.BatchedContentFetcher
	composer *summarize.SummaryComposer
}

// NewSummaryService wires the pipeline's collaborators together.
func NewSummaryService(
	source port.ContentSource,
	registry port.RepoRegistry,
	store port.SummaryStore,
	fetcher *analysis.BatchedContentFetcher,
	composer *summarize.SummaryComposer,
) *SummaryService {
	return &SummaryService{
		source:   source,
		registry: registry,
		store:    store,
		fetcher:  fetcher,
		composer: composer,
	}
}

// AnalysisOutcome reports a completed run.
type AnalysisOutcome struct {
	SummaryID string              `json:"summary_id"`
	RepoID    string              `json:"repo_id"`
	Branch    string              `json:"branch"`
	Draft     domain.SummaryDraft `json:"summary"`
}

// AnalyzeBranch performs one full analysis run for ref and upserts the
// resulting summary under (repository, branch).
func (s *SummaryService) AnalyzeBranch(ctx context.Context, ref domain.RepositoryRef) (*AnalysisOutcome, error) {
	// Registry precondition first: never spend API and model budget on a
	// repository we cannot persist for.
	repo, err := s.registry.FindRepo(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, err
	}

	slog.Info("starting branch analysis",
		"repo", ref.FullName(), "branch", ref.Branch, "repo_id", repo.ID)

	tree, err := s.source.GetTree(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("analyze %s@%s: %w", ref.FullName(), ref.Branch, err)
	}

	languages := analysis.AnalyzeBranchLanguages(tree)
	structure := analysis.AnalyzeProjectStructure(tree)
	analyzable := analysis.FilterAnalyzablePaths(tree)
	important := analysis.SelectImportantFiles(tree)

	contents, err := s.fetcher.FetchContents(ctx, ref, important)
	if err != nil {
		return nil, fmt.Errorf("fetch contents %s@%s: %w", ref.FullName(), ref.Branch, err)
	}
	techStack := analysis.DetectTechStack(contents)

	readme, err := s.source.GetReadme(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("analyze %s@%s: %w", ref.FullName(), ref.Branch, err)
	}
	commits, err := s.source.GetCommits(ctx, ref, commitLimit)
	if err != nil {
		return nil, fmt.Errorf("analyze %s@%s: %w", ref.FullName(), ref.Branch, err)
	}
	prs, err := s.source.GetPullRequests(ctx, ref, "all", pullRequestLimit)
	if err != nil {
		return nil, fmt.Errorf("analyze %s@%s: %w", ref.FullName(), ref.Branch, err)
	}

	input := summarize.ComposerInput{
		Ref:          ref,
		Readme:       readme,
		Commits:      commits,
		PullRequests: prs,
		TechStack:    techStack,
		Structure:    structure,
		Languages:    languages,
		FileContents: contents,
	}

	composition, err := s.composer.Compose(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("generate summary %s@%s: %w", ref.FullName(), ref.Branch, err)
	}

	draft := summarize.ExtractSections(composition.Response, techStack)
	draft.Metrics = domain.PerformanceMetrics{
		CommitsAnalyzed: len(commits),
		PRsAnalyzed:     len(prs),
		FilesAnalyzed:   len(analyzable),
		FilesFetched:    len(contents),
		PromptChars:     composition.PromptChars,
		ResponseChars:   len(composition.Response),
	}

	summaryID, err := s.store.UpsertSummary(ctx, repo.ID, ref.Branch, draft)
	if err != nil {
		return nil, fmt.Errorf("persist summary %s@%s: %w", ref.FullName(), ref.Branch, err)
	}

	slog.Info("branch analysis complete",
		"repo", ref.FullName(), "branch", ref.Branch, "summary_id", summaryID,
		"files_analyzed", len(analyzable), "files_fetched", len(contents),
		"detected_techs", len(techStack.Detected))

	return &AnalysisOutcome{
		SummaryID: summaryID,
		RepoID:    repo.ID,
		Branch:    ref.Branch,
		Draft:     draft,
	}, nil
}

// GetSummary returns the stored summary for a repository branch.
func (s *SummaryService) GetSummary(ctx context.Context, owner, name, branch string) (*domain.PersistedSummary, error) {
	repo, err := s.registry.FindRepo(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return s.store.GetSummary(ctx, repo.ID, branch)
}
