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

// AuthHandler serves login and account management endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminLogin POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, _, err := h.authService.AdminLogin(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Subject:   string(result.Subject),
	}})
}

// StaffLogin POST /auth/staff/login.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, _, err := h.authService.StaffLogin(c.Context(), req.NISNo, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Subject:   string(result.Subject),
	}})
}

// Me GET /auth/me returns the authenticated identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Admin != nil {
		return c.JSON(fiber.Map{"data": adminAccountResponse(principal.Admin)})
	}
	if principal.Staff != nil {
		return c.JSON(fiber.Map{"data": staffDetail(principal.Staff)})
	}
	return apperrors.NewUnauthorized("authentication required")
}

// SetStaffPassword PUT /auth/staff/:id/password resets a staff login.
func (h *AuthHandler) SetStaffPassword(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authService.SetStaffPassword(c.Context(), id, req.Password); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateAdmin POST /auth/admins registers an administrative account.
func (h *AuthHandler) CreateAdmin(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.authService.CreateAdminAccount(c.Context(), req.Username, req.Password, domain.AdminRole(req.Role), req.FormationID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": adminAccountResponse(account)})
}

func adminAccountResponse(account *domain.AdminAccount) dto.AdminAccountResponse {
	return dto.AdminAccountResponse{
		ID:          account.ID,
		Username:    account.Username,
		Role:        string(account.Role),
		FormationID: account.FormationID,
		CreatedAt:   account.CreatedAt,
	}
}
