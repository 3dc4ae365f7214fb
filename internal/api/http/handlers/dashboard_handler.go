package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/service"
)

// DashboardHandler serves aggregated roster statistics and the manual scan
// trigger.
type DashboardHandler struct {
	dashboard   *service.DashboardService
	retirements *service.RetirementService
	audit       *service.AuditService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard *service.DashboardService, retirements *service.RetirementService, audit *service.AuditService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, retirements: retirements, audit: audit}
}

// Stats GET /dashboard/stats?formation_id=.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	var formationID *int64
	if ids := parseIDList(c.Query("formation_id")); len(ids) > 0 {
		formationID = &ids[0]
	}
	stats, err := h.dashboard.Stats(c.Context(), formationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// RunRetirementScan POST /retirements/scan triggers a scan outside the
// worker cadence.
func (h *DashboardHandler) RunRetirementScan(c *fiber.Ctx) error {
	asOf := time.Now()
	if parsed := parseDate(c.Query("as_of")); parsed != nil {
		asOf = *parsed
	}
	result, err := h.retirements.ProcessDueRetirements(c.Context(), asOf)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"processed": result.Processed,
		"batch_id":  result.BatchID,
	}})
}

// AuditLogs GET /audit-logs.
func (h *DashboardHandler) AuditLogs(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 100)
	entries, err := h.audit.ListEntries(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditLogResponse{
			ID:        entry.ID,
			Action:    entry.Action,
			Target:    entry.Target,
			Actor:     entry.Actor,
			Details:   entry.Details,
			Timestamp: entry.Timestamp,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
