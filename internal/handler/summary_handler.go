package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
	"github.com/arturoeanton/gitfolio-ai/internal/service"
)

// SummaryHandler exposes branch analysis and summary retrieval.
type SummaryHandler struct {
	summaries *service.SummaryService
	tracker   *JobTracker
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(summaries *service.SummaryService, tracker *JobTracker) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, tracker: tracker}
}

// Register sets up summary routes.
func (h *SummaryHandler) Register(api fiber.Router) {
	repos := api.Group("/repos/:owner/:name")
	repos.Post("/branches/:branch/analyze", h.Analyze)
	repos.Get("/branches/:branch/summary", h.Get)
}

// Analyze starts an asynchronous analysis run for a branch and returns the
// job id. Concurrent analyses of the same branch are not serialized here;
// the upsert key makes the last writer win.
func (h *SummaryHandler) Analyze(c fiber.Ctx) error {
	ref := domain.RepositoryRef{
		Owner:  c.Params("owner"),
		Name:   c.Params("name"),
		Branch: c.Params("branch"),
	}
	if ref.Owner == "" || ref.Name == "" || ref.Branch == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "owner, name, and branch are required"})
	}

	jobID := h.tracker.CreateJob(ref.FullName(), ref.Branch)

	go func() {
		outcome, err := h.summaries.AnalyzeBranch(context.Background(), ref)
		if err != nil {
			slog.Error("analysis failed",
				"repo", ref.FullName(), "branch", ref.Branch, "job", jobID, "error", err)
			h.tracker.FailJob(jobID, err)
			return
		}
		h.tracker.CompleteJob(jobID, outcome.SummaryID)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id": jobID,
		"repo":   ref.FullName(),
		"branch": ref.Branch,
	})
}

// Get returns the stored summary for a branch.
func (h *SummaryHandler) Get(c fiber.Ctx) error {
	summary, err := h.summaries.GetSummary(c.Context(), c.Params("owner"), c.Params("name"), c.Params("branch"))
	if err != nil {
		switch {
		case errors.Is(err, port.ErrRepoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "repository not found"})
		case errors.Is(err, port.ErrSummaryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "summary not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(summary)
}
