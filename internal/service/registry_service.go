package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
)

// RegistryService manages the repository registry that summaries key against.
// A repository must be registered before any of its branches can be analyzed.
type RegistryService struct {
	registry port.RepoRegistry
	admin    port.RepoAdmin
}

// NewRegistryService creates a new registry service.
func NewRegistryService(registry port.RepoRegistry, admin port.RepoAdmin) *RegistryService {
	return &RegistryService{registry: registry, admin: admin}
}

// Register adds a repository to the registry. Idempotent: registering an
// existing (owner, name) pair refreshes the default branch and keeps the id.
func (s *RegistryService) Register(ctx context.Context, owner, name, defaultBranch string) (*domain.Repository, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if owner == "" || name == "" {
		return nil, fmt.Errorf("register repo: owner and name are required")
	}
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	repo, err := s.admin.RegisterRepo(ctx, owner, name, defaultBranch)
	if err != nil {
		return nil, err
	}

	slog.Info("repository registered",
		"repo", owner+"/"+name, "repo_id", repo.ID, "default_branch", repo.DefaultBranch)
	return repo, nil
}

// List returns all registered repositories.
func (s *RegistryService) List(ctx context.Context) ([]domain.Repository, error) {
	return s.admin.ListRepos(ctx)
}

// Find resolves a registered repository by owner and name.
func (s *RegistryService) Find(ctx context.Context, owner, name string) (*domain.Repository, error) {
	return s.registry.FindRepo(ctx, owner, name)
}
