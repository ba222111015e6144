package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
)

// PostgresStore handles all relational database operations: the repository
// registry reads and the summary upsert target.
//
// Expected schema:
//
//	repositories(id uuid PK, owner text, name text, default_branch text,
//	             created_at timestamptz, updated_at timestamptz,
//	             UNIQUE(owner, name))
//	repo_summaries(id uuid PK DEFAULT gen_random_uuid(),
//	             repo_id uuid REFERENCES repositories(id),
//	             branch text,
//	             project_intro text, tech_stack jsonb, tech_stack_notes text,
//	             architecture_notes text, refactoring_history text,
//	             collaboration_flow text, resume_bullets jsonb, metrics jsonb,
//	             created_at timestamptz DEFAULT now(),
//	             updated_at timestamptz DEFAULT now(),
//	             UNIQUE(repo_id, branch))
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreWithDB wraps an existing connection (used in tests).
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Repository registry (read side) ---

// RepoExists reports whether the repository id is registered.
func (s *PostgresStore) RepoExists(ctx context.Context, repoID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM repositories WHERE id = $1)`, repoID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check repo exists: %w", err)
	}
	return exists, nil
}

// RegisterRepo registers a repository, or refreshes its default branch when
// the (owner, name) pair is already registered. At most one row exists per
// pair; re-registration keeps the original id.
func (s *PostgresStore) RegisterRepo(ctx context.Context, owner, name, defaultBranch string) (*domain.Repository, error) {
	query := `
		INSERT INTO repositories (id, owner, name, default_branch, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (owner, name) DO UPDATE SET
			default_branch = EXCLUDED.default_branch,
			updated_at = NOW()
		RETURNING id, owner, name, default_branch, created_at, updated_at`

	var r domain.Repository
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), owner, name, defaultBranch).Scan(
		&r.ID, &r.Owner, &r.Name, &r.DefaultBranch, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("register repo: %w", err)
	}
	return &r, nil
}

// ListRepos returns all registered repositories ordered by owner and name.
func (s *PostgresStore) ListRepos(ctx context.Context) ([]domain.Repository, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, name, default_branch, created_at, updated_at
		 FROM repositories ORDER BY owner, name`)
	if err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	defer rows.Close()

	var repos []domain.Repository
	for rows.Next() {
		var r domain.Repository
		if err := rows.Scan(&r.ID, &r.Owner, &r.Name, &r.DefaultBranch, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan repo row: %w", err)
		}
		repos = append(repos, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repo rows: %w", err)
	}
	return repos, nil
}

// FindRepo resolves a registered repository by owner and name.
func (s *PostgresStore) FindRepo(ctx context.Context, owner, name string) (*domain.Repository, error) {
	query := `SELECT id, owner, name, default_branch, created_at, updated_at
	          FROM repositories WHERE owner = $1 AND name = $2`

	var r domain.Repository
	err := s.db.QueryRowContext(ctx, query, owner, name).Scan(
		&r.ID, &r.Owner, &r.Name, &r.DefaultBranch, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", port.ErrRepoNotFound, owner, name)
	}
	if err != nil {
		return nil, fmt.Errorf("find repo: %w", err)
	}
	return &r, nil
}

// --- Summaries ---

// UpsertSummary writes the draft for (repoID, branch). On conflict all
// fields are overwritten and updated_at refreshed, so at most one row exists
// per key. Fails fast with ErrRepoNotFound when the repository is not
// registered, rather than creating an orphan record.
func (s *PostgresStore) UpsertSummary(ctx context.Context, repoID, branch string, draft domain.SummaryDraft) (string, error) {
	exists, err := s.RepoExists(ctx, repoID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", port.ErrRepoNotFound, repoID)
	}

	techStack, err := json.Marshal(draft.TechStack)
	if err != nil {
		return "", fmt.Errorf("marshal tech stack: %w", err)
	}
	bullets, err := json.Marshal(draft.ResumeBullets)
	if err != nil {
		return "", fmt.Errorf("marshal resume bullets: %w", err)
	}
	metrics, err := json.Marshal(draft.Metrics)
	if err != nil {
		return "", fmt.Errorf("marshal metrics: %w", err)
	}

	query := `
		INSERT INTO repo_summaries (
			repo_id, branch, project_intro, tech_stack, tech_stack_notes,
			architecture_notes, refactoring_history, collaboration_flow,
			resume_bullets, metrics
		)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9::jsonb, $10::jsonb)
		ON CONFLICT (repo_id, branch) DO UPDATE SET
			project_intro = EXCLUDED.project_intro,
			tech_stack = EXCLUDED.tech_stack,
			tech_stack_notes = EXCLUDED.tech_stack_notes,
			architecture_notes = EXCLUDED.architecture_notes,
			refactoring_history = EXCLUDED.refactoring_history,
			collaboration_flow = EXCLUDED.collaboration_flow,
			resume_bullets = EXCLUDED.resume_bullets,
			metrics = EXCLUDED.metrics,
			updated_at = NOW()
		RETURNING id`

	var id string
	err = s.db.QueryRowContext(ctx, query,
		repoID, branch, draft.ProjectIntro, string(techStack), draft.TechStackNotes,
		draft.ArchitectureNotes, draft.RefactoringHistory, draft.CollaborationFlow,
		string(bullets), string(metrics),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert summary: %w", err)
	}
	return id, nil
}

// GetSummary returns the stored summary for (repoID, branch).
func (s *PostgresStore) GetSummary(ctx context.Context, repoID, branch string) (*domain.PersistedSummary, error) {
	query := `SELECT id, repo_id, branch, project_intro, tech_stack::text, tech_stack_notes,
	                 architecture_notes, refactoring_history, collaboration_flow,
	                 resume_bullets::text, metrics::text, created_at, updated_at
	          FROM repo_summaries WHERE repo_id = $1 AND branch = $2`

	var (
		result    domain.PersistedSummary
		techStack string
		bullets   string
		metrics   string
	)
	err := s.db.QueryRowContext(ctx, query, repoID, branch).Scan(
		&result.ID, &result.RepoID, &result.Branch,
		&result.Draft.ProjectIntro, &techStack, &result.Draft.TechStackNotes,
		&result.Draft.ArchitectureNotes, &result.Draft.RefactoringHistory,
		&result.Draft.CollaborationFlow, &bullets, &metrics,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: repo %s branch %s", port.ErrSummaryNotFound, repoID, branch)
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}

	if err := json.Unmarshal([]byte(techStack), &result.Draft.TechStack); err != nil {
		return nil, fmt.Errorf("decode tech stack: %w", err)
	}
	if err := json.Unmarshal([]byte(bullets), &result.Draft.ResumeBullets); err != nil {
		return nil, fmt.Errorf("decode resume bullets: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &result.Draft.Metrics); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	return &result, nil
}
