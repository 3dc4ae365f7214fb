package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// AuthService authenticates admin accounts and staff logins.
type AuthService struct {
	admins           repository.AdminAccountRepository
	staff            repository.StaffRepository
	tokens           *auth.TokenManager
	bcryptCost       int
	maxLoginAttempts int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	AdminRepo        repository.AdminAccountRepository
	StaffRepo        repository.StaffRepository
	Tokens           *auth.TokenManager
	BcryptCost       int
	MaxLoginAttempts int
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	maxAttempts := deps.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &AuthService{
		admins:           deps.AdminRepo,
		staff:            deps.StaffRepo,
		tokens:           deps.Tokens,
		bcryptCost:       deps.BcryptCost,
		maxLoginAttempts: maxAttempts,
	}
}

// LoginResult carries an issued token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Subject   domain.SubjectType
}

// AdminLogin authenticates an administrative account by username.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*LoginResult, *domain.AdminAccount, error) {
	account, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, nil, errorutil.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, nil, errorutil.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Generate(auth.TokenSubject{
		ID:          account.ID,
		Type:        domain.SubjectTypeAdmin,
		AdminRole:   &account.Role,
		FormationID: account.FormationID,
	})
	if err != nil {
		return nil, nil, errorutil.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Subject: domain.SubjectTypeAdmin}, account, nil
}

// StaffLogin authenticates a roster member by NIS number. Logins are gated on
// the record's allow_login flag and active status; failed attempts count up
// and lock the login once the threshold is crossed.
func (s *AuthService) StaffLogin(ctx context.Context, nisNo, password string) (*LoginResult, *domain.StaffRecord, error) {
	rec, err := s.staff.GetByNIS(ctx, strings.TrimSpace(nisNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, nil, errorutil.MapError(err)
	}
	if !rec.Active() || !rec.AllowLogin || rec.PasswordHash == "" {
		return nil, nil, errorutil.NewUnauthorized("login disabled")
	}
	if err := auth.ComparePassword(rec.PasswordHash, password); err != nil {
		rec.LoginAttempts++
		if rec.LoginAttempts >= s.maxLoginAttempts {
			rec.AllowLogin = false
		}
		if updateErr := s.staff.Update(ctx, rec); updateErr != nil {
			return nil, nil, errorutil.MapError(updateErr)
		}
		return nil, nil, errorutil.NewUnauthorized("invalid credentials")
	}
	if rec.LoginAttempts != 0 {
		rec.LoginAttempts = 0
		if err := s.staff.Update(ctx, rec); err != nil {
			return nil, nil, errorutil.MapError(err)
		}
	}

	token, expiresAt, err := s.tokens.Generate(auth.TokenSubject{
		ID:          rec.ID,
		Type:        domain.SubjectTypeStaff,
		StaffRole:   &rec.Role,
		FormationID: rec.FormationID,
	})
	if err != nil {
		return nil, nil, errorutil.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Subject: domain.SubjectTypeStaff}, rec, nil
}

// SetStaffPassword hashes and stores a new password, restoring login access.
func (s *AuthService) SetStaffPassword(ctx context.Context, staffID int64, password string) error {
	if len(password) < 8 {
		return errorutil.NewValidationError("password must be at least 8 characters", nil)
	}
	rec, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("staff record", map[string]any{"id": staffID})
		}
		return errorutil.MapError(err)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	rec.PasswordHash = hash
	rec.LoginAttempts = 0
	rec.AllowLogin = true
	if err := s.staff.Update(ctx, rec); err != nil {
		return errorutil.MapError(err)
	}
	return nil
}

// CreateAdminAccount registers a new administrative login.
func (s *AuthService) CreateAdminAccount(ctx context.Context, username, password string, role domain.AdminRole, formationID *int64) (*domain.AdminAccount, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errorutil.NewValidationError("username is required", nil)
	}
	if !domain.ValidAdminRole(role) {
		return nil, errorutil.NewValidationError("invalid admin role", map[string]any{"role": role})
	}
	if role == domain.AdminRoleFormation && formationID == nil {
		return nil, errorutil.NewValidationError("formation admin requires a formation", nil)
	}
	if existing, err := s.admins.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, errorutil.NewConflict("username already taken", map[string]any{"username": username})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	account := &domain.AdminAccount{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FormationID:  formationID,
	}
	if err := s.admins.Create(ctx, account); err != nil {
		return nil, errorutil.MapError(err)
	}
	return account, nil
}
