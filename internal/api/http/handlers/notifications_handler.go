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

// NotificationsHandler serves per-recipient feeds and broadcasts.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /notifications returns the caller's feed, unread first.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	offset := (page - 1) * pageSize

	var notifs []domain.Notification
	var err error
	switch {
	case principal.Admin != nil:
		notifs, err = h.notifications.ListForAdmin(c.Context(), principal.Admin.ID, pageSize, offset)
	case principal.Staff != nil:
		notifs, err = h.notifications.ListForStaff(c.Context(), principal.Staff.ID, pageSize, offset)
	default:
		return apperrors.NewUnauthorized("authentication required")
	}
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifs))
	for i := range notifs {
		items = append(items, notificationResponse(&notifs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Broadcast POST /notifications/broadcast fans a message out to one
// administrative tier.
func (h *NotificationsHandler) Broadcast(c *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.BroadcastInput{
		Message:       req.Message,
		SpecialAdmins: req.SpecialAdmins,
		MainAdmins:    req.MainAdmins,
	}
	if req.OfficeName != nil {
		if req.FormationID == nil {
			return apperrors.NewValidationError("office tier requires formation_id", nil)
		}
		input.Office = &service.OfficeTarget{Name: *req.OfficeName, FormationID: *req.FormationID}
	} else {
		input.FormationID = req.FormationID
	}
	result, err := h.notifications.Broadcast(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.BroadcastResponse{
		BatchID:    result.BatchID,
		Recipients: result.Recipients,
	}})
}
