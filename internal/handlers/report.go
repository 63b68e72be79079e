package handlers

import (
	"ajo/internal/models"
	"ajo/internal/services/report"
	"ajo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports report.Service
}

func NewReportHandler(reports report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get builds the organizer's reconciliation report across all owned
// collections.
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	rep, err := h.reports.Build(c.Context(), claims.OrganizerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Reconciliation report", rep)
}
