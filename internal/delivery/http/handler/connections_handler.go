package handler

import (
	"sort"

	"referral-radar/internal/delivery/http/dto"
	"referral-radar/internal/delivery/http/middleware"
	"referral-radar/internal/pkg/response"
	"referral-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ConnectionsHandler struct {
	uc *usecase.Connections
}

func NewConnectionsHandler(uc *usecase.Connections) *ConnectionsHandler {
	return &ConnectionsHandler{uc: uc}
}

func (h *ConnectionsHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/connections")
	g.Post("/import", h.HandleImport)
	g.Post("/reimport", h.HandleReimport)
	g.Get("/summary", h.HandleSummary)
	g.Get("/by-company", h.HandleByCompany)
	g.Delete("/", h.HandleDeleteAll)
}

// HandleImport ingests a multipart CSV upload under the "file" field.
func (h *ConnectionsHandler) HandleImport(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "missing file upload", nil, err)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "unreadable file upload", nil, err)
	}
	defer f.Close()

	res, err := h.uc.ImportCSV(c.Context(), fileHeader.Filename, fileHeader.Size, f, middleware.UserID(c))
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "connections imported", dto.NewImportResultResponse(res))
}

// HandleReimport re-runs the import from the cached raw CSV.
func (h *ConnectionsHandler) HandleReimport(c fiber.Ctx) error {
	res, err := h.uc.ReimportCached(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "connections reimported", dto.NewImportResultResponse(res))
}

func (h *ConnectionsHandler) HandleSummary(c fiber.Ctx) error {
	sum, err := h.uc.Summary(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSummaryResponse(sum))
}

// HandleByCompany groups stored connections by raw company name, largest
// groups first.
func (h *ConnectionsHandler) HandleByCompany(c fiber.Ctx) error {
	groups, err := h.uc.ByCompany(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.CompanyGroupResponse, 0, len(groups))
	for company, conns := range groups {
		out = append(out, dto.CompanyGroupResponse{
			Company:         company,
			ConnectionCount: len(conns),
			Connections:     conns,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectionCount != out[j].ConnectionCount {
			return out[i].ConnectionCount > out[j].ConnectionCount
		}
		return out[i].Company < out[j].Company
	})

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ConnectionsHandler) HandleDeleteAll(c fiber.Ctx) error {
	if err := h.uc.DeleteAll(c.Context()); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "connections deleted", nil)
}
