package handler

import (
	"strings"

	"referral-radar/internal/delivery/http/dto"
	"referral-radar/internal/delivery/http/middleware"
	"referral-radar/internal/pkg/response"
	"referral-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc *usecase.Jobs
}

func NewJobsHandler(uc *usecase.Jobs) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/jobs")
	g.Get("/", h.HandleListJobs)
	g.Get("/company-count", h.HandleCompanyCount)
}

// HandleListJobs returns the filtered feed, each job annotated with the
// caller's connection matches. Categories come as a comma-separated query.
func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	categories := parseCategoriesQuery(c.Query("categories"))

	items, err := h.uc.List(c.Context(), categories)
	if err != nil {
		return err
	}

	out := make([]dto.JobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewJobResponse(it))
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobsHandler) HandleCompanyCount(c fiber.Ctx) error {
	company := strings.TrimSpace(c.Query("company"))
	if company == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "company query parameter is required", nil, nil)
	}

	count, err := h.uc.CompanyCount(c.Context(), company)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CompanyCountResponse{
		Company:         company,
		ConnectionCount: count,
	})
}

func parseCategoriesQuery(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
