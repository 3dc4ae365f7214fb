package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/service"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// EditRequestsHandler serves the propose/approve workflow.
type EditRequestsHandler struct {
	requests *service.EditRequestService
}

// NewEditRequestsHandler constructs the handler.
func NewEditRequestsHandler(requests *service.EditRequestService) *EditRequestsHandler {
	return &EditRequestsHandler{requests: requests}
}

// Submit POST /staff/:id/edit-requests. Admin callers are elevated past the
// per-record permission flags; staff callers are not.
func (h *EditRequestsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	staffID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	// staff may only propose edits to their own record
	if principal.Staff != nil && principal.Staff.Role == domain.StaffRoleStaff && principal.Staff.ID != staffID {
		return apperrors.NewForbidden("cannot edit another record")
	}
	var req dto.SubmitEditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	changes, err := toChangeSet(req.Changes)
	if err != nil {
		return err
	}
	elevated := principal.Admin != nil
	result, err := h.requests.Submit(c.Context(), staffID, changes, elevated, actor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": editRequestResponse(result)})
}

// List GET /edit-requests?status=.
func (h *EditRequestsHandler) List(c *fiber.Ctx) error {
	status := domain.EditRequestStatus(c.Query("status", string(domain.EditRequestPending)))
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	list, err := h.requests.ListRequests(c.Context(), status, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.EditRequestResponse, 0, len(list))
	for i := range list {
		items = append(items, editRequestResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /edit-requests/:id.
func (h *EditRequestsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.requests.GetRequest(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": editRequestResponse(req)})
}

// Approve POST /edit-requests/:id/approve.
func (h *EditRequestsHandler) Approve(c *fiber.Ctx) error {
	return h.resolve(c, true)
}

// Reject POST /edit-requests/:id/reject.
func (h *EditRequestsHandler) Reject(c *fiber.Ctx) error {
	return h.resolve(c, false)
}

func (h *EditRequestsHandler) resolve(c *fiber.Ctx, approve bool) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var result *domain.EditRequest
	if approve {
		result, err = h.requests.Approve(c.Context(), id, actor)
	} else {
		result, err = h.requests.Reject(c.Context(), id, actor)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": editRequestResponse(result)})
}
