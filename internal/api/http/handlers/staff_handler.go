package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/internal/service"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// StaffHandler serves roster record endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	q := parseRosterQuery(c)
	page, err := h.staff.ListRoster(c.Context(), q)
	if err != nil {
		return err
	}
	items := make([]dto.StaffSummary, 0, len(page.Records))
	for i := range page.Records {
		items = append(items, staffSummary(&page.Records[i]))
	}
	return c.JSON(fiber.Map{"data": dto.RosterListResponse{Items: items, Total: page.Total}})
}

// Create POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.StaffCreateInput{
		NISNo:         req.NISNo,
		Surname:       req.Surname,
		OtherNames:    req.OtherNames,
		Rank:          domain.Rank(req.Rank),
		Gender:        req.Gender,
		StateID:       req.StateID,
		LGAID:         req.LGAID,
		HomeTown:      req.HomeTown,
		Qualification: req.Qualification,
		PhoneNo:       req.PhoneNo,
		NextOfKin:     req.NextOfKin,
		NOKPhone:      req.NOKPhone,
		Office:        req.Office,
		Remark:        req.Remark,
		FormationID:   req.FormationID,
		Role:          domain.StaffRole(req.Role),
		Password:      req.Password,
		AllowLogin:    req.AllowLogin,
	}
	for _, pair := range []struct {
		src *string
		dst **time.Time
	}{
		{req.DOFA, &input.DOFA},
		{req.DOPA, &input.DOPA},
		{req.DOPP, &input.DOPP},
		{req.DOB, &input.DOB},
	} {
		if pair.src != nil {
			parsed := parseDate(*pair.src)
			if parsed == nil {
				return apperrors.NewValidationError("invalid date", map[string]any{"value": *pair.src})
			}
			*pair.dst = parsed
		}
	}
	rec, err := h.staff.CreateStaff(c.Context(), input, actor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffDetail(rec)})
}

// Get GET /staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	rec, err := h.staff.GetStaff(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

// Me GET /staff/me returns the authenticated staff member's own record.
func (h *StaffHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff login required")
	}
	return c.JSON(fiber.Map{"data": staffDetail(principal.Staff)})
}

// Update PATCH /staff/:id applies a change-set directly.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeSetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	changes, err := toChangeSet(req)
	if err != nil {
		return err
	}
	rec, err := h.staff.UpdateStaff(c.Context(), id, changes, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

// Delete DELETE /staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.staff.DeleteStaff(c.Context(), id, actor); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangeRole PUT /staff/:id/role.
func (h *StaffHandler) ChangeRole(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rec, err := h.staff.ChangeRole(c.Context(), id, domain.StaffRole(req.Role), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

// AssignPosting PUT /staff/:id/posting.
func (h *StaffHandler) AssignPosting(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignPostingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rec, err := h.staff.AssignPosting(c.Context(), id, req.FormationID, req.Office, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

// SetEditFlags PUT /staff/:id/edit-flags.
func (h *StaffHandler) SetEditFlags(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EditFlagsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rec, err := h.staff.SetEditFlags(c.Context(), id, req.AllowEditRank, req.AllowEditDOPP, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

// RecordExit POST /staff/:id/exit.
func (h *StaffHandler) RecordExit(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RecordExitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	exitDate := parseDate(req.ExitDate)
	if exitDate == nil {
		return apperrors.NewValidationError("invalid exit_date", nil)
	}
	rec, err := h.staff.RecordExit(c.Context(), id, *exitDate, domain.ExitMode(req.ExitMode), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

// RaiseOutRequest POST /staff/out-request lets a staff login ask to leave.
func (h *StaffHandler) RaiseOutRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff login required")
	}
	var req dto.OutRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewValidationError("reason is required", nil)
	}
	rec, err := h.staff.RaiseOutRequest(c.Context(), principal.Staff.ID, req.Reason, service.StaffActor(principal.Staff))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

// ResolveOutRequest PUT /staff/:id/out-request.
func (h *StaffHandler) ResolveOutRequest(c *fiber.Ctx) error {
	actor, err := actorFromPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ResolveOutRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	mode := domain.ExitMode(req.ExitMode)
	if req.Approve && mode == "" {
		mode = domain.ExitModePostedOut
	}
	rec, err := h.staff.ResolveOutRequest(c.Context(), id, req.Approve, mode, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffDetail(rec)})
}

func parseRosterQuery(c *fiber.Ctx) roster.Query {
	q := roster.Query{Search: c.Query("search")}
	for _, rank := range parseCSV(c.Query("rank")) {
		q.Ranks = append(q.Ranks, domain.Rank(rank))
	}
	q.Offices = parseCSV(c.Query("office"))
	q.Genders = parseCSV(c.Query("gender"))
	q.StateIDs = parseIDList(c.Query("state_id"))
	q.LGAIDs = parseIDList(c.Query("lga_id"))
	q.FormationIDs = parseIDList(c.Query("formation_id"))

	if val := c.Query("completeness"); val != "" {
		completeness := roster.Completeness(val)
		q.Completeness = &completeness
	}
	if val := c.Query("status"); val != "" {
		status := roster.Status(val)
		q.Status = &status
	}
	q.ExitedFrom = parseDate(c.Query("exited_from"))
	q.ExitedTo = parseDate(c.Query("exited_to"))
	q.AppointedFrom = parseDate(c.Query("appointed_from"))
	q.AppointedTo = parseDate(c.Query("appointed_to"))
	if val := c.Query("retirement_year"); val != "" {
		if year, err := strconv.Atoi(val); err == nil {
			q.RetirementYear = &year
		}
	}
	q.Order = roster.ParseOrder(c.Query("order"))

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), roster.DefaultLimit)
	q.Offset = (page - 1) * pageSize
	q.Limit = pageSize
	return q
}
