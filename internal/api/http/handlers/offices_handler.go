package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/service"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// OfficesHandler serves posting-location endpoints.
type OfficesHandler struct {
	offices *service.OfficeService
}

// NewOfficesHandler constructs the handler.
func NewOfficesHandler(offices *service.OfficeService) *OfficesHandler {
	return &OfficesHandler{offices: offices}
}

// Create POST /offices.
func (h *OfficesHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateOfficeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.OfficeCreateInput{
		Name:        req.Name,
		FormationID: req.FormationID,
		ParentID:    req.ParentID,
	}
	if req.Type != nil {
		officeType := domain.OfficeType(*req.Type)
		input.Type = &officeType
	}
	office, err := h.offices.CreateOffice(c.Context(), input, actor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": officeResponse(office)})
}

// Update PUT /offices/:id.
func (h *OfficesHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateOfficeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	var officeType *domain.OfficeType
	if req.Type != nil {
		parsed := domain.OfficeType(*req.Type)
		officeType = &parsed
	}
	office, err := h.offices.UpdateOffice(c.Context(), id, req.Name, officeType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": officeResponse(office)})
}

// Delete DELETE /offices/:id.
func (h *OfficesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.offices.DeleteOffice(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /offices/:id.
func (h *OfficesHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	office, err := h.offices.GetOffice(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": officeResponse(office)})
}

// List GET /offices?formation_id=.
func (h *OfficesHandler) List(c *fiber.Ctx) error {
	var formationID *int64
	if ids := parseIDList(c.Query("formation_id")); len(ids) > 0 {
		formationID = &ids[0]
	}
	list, err := h.offices.ListOffices(c.Context(), formationID)
	if err != nil {
		return err
	}
	items := make([]dto.OfficeResponse, 0, len(list))
	for i := range list {
		items = append(items, officeResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
