package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/service"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// FormationsHandler serves formation tree endpoints.
type FormationsHandler struct {
	formations *service.FormationService
}

// NewFormationsHandler constructs the handler.
func NewFormationsHandler(formations *service.FormationService) *FormationsHandler {
	return &FormationsHandler{formations: formations}
}

// Create POST /formations.
func (h *FormationsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateFormationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	formation, err := h.formations.CreateFormation(c.Context(), service.FormationCreateInput{
		Name:     req.Name,
		Code:     req.Code,
		Type:     domain.FormationType(req.Type),
		ParentID: req.ParentID,
	}, actor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": formationResponse(formation)})
}

// Update PUT /formations/:id.
func (h *FormationsHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateFormationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	formation, err := h.formations.UpdateFormation(c.Context(), id, req.Name, req.Code, req.ParentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": formationResponse(formation)})
}

// Get GET /formations/:id.
func (h *FormationsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	formation, err := h.formations.GetFormation(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": formationResponse(formation)})
}

// List GET /formations.
func (h *FormationsHandler) List(c *fiber.Ctx) error {
	list, err := h.formations.ListFormations(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.FormationResponse, 0, len(list))
	for i := range list {
		items = append(items, formationResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Scope GET /formations/:id/scope.
func (h *FormationsHandler) Scope(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	ids, err := h.formations.ResolveScope(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ScopeResponse{FormationID: id, FormationIDs: ids}})
}
