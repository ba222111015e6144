package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/gitfolio-ai/internal/port"
	"github.com/arturoeanton/gitfolio-ai/internal/service"
)

// RegistryHandler exposes repository registration and lookup.
type RegistryHandler struct {
	registry *service.RegistryService
}

// NewRegistryHandler creates a new registry handler.
func NewRegistryHandler(registry *service.RegistryService) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// Register sets up registry routes.
func (h *RegistryHandler) Register(api fiber.Router) {
	repos := api.Group("/repos")
	repos.Get("/", h.List)
	repos.Post("/", h.Create)
	repos.Get("/:owner/:name", h.Get)
}

// Create registers a repository so its branches can be analyzed.
func (h *RegistryHandler) Create(c fiber.Ctx) error {
	var body struct {
		Owner         string `json:"owner"`
		Name          string `json:"name"`
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	repo, err := h.registry.Register(c.Context(), body.Owner, body.Name, body.DefaultBranch)
	if err != nil {
		if body.Owner == "" || body.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(repo)
}

// List returns all registered repositories.
func (h *RegistryHandler) List(c fiber.Ctx) error {
	repos, err := h.registry.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"repos": repos, "count": len(repos)})
}

// Get resolves a single registered repository.
func (h *RegistryHandler) Get(c fiber.Ctx) error {
	repo, err := h.registry.Find(c.Context(), c.Params("owner"), c.Params("name"))
	if err != nil {
		if errors.Is(err, port.ErrRepoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "repository not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(repo)
}
