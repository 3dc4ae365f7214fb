package dto

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// CreateFormationRequest payload.
type CreateFormationRequest struct {
	Name     string  `json:"name"`
	Code     *string `json:"code"`
	Type     string  `json:"formation_type"`
	ParentID *int64  `json:"parent_id"`
}

// UpdateFormationRequest payload.
type UpdateFormationRequest struct {
	Name     string  `json:"name"`
	Code     *string `json:"code"`
	ParentID *int64  `json:"parent_id"`
}

// FormationResponse view.
type FormationResponse struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	Code      *string              `json:"code"`
	Type      domain.FormationType `json:"formation_type"`
	ParentID  *int64               `json:"parent_id"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ScopeResponse lists the formation ids a scope expands to.
type ScopeResponse struct {
	FormationID  int64   `json:"formation_id"`
	FormationIDs []int64 `json:"formation_ids"`
}

// CreateOfficeRequest payload.
type CreateOfficeRequest struct {
	Name        string  `json:"name"`
	FormationID *int64  `json:"formation_id"`
	Type        *string `json:"office_type"`
	ParentID    *int64  `json:"parent_id"`
}

// UpdateOfficeRequest payload.
type UpdateOfficeRequest struct {
	Name string  `json:"name"`
	Type *string `json:"office_type"`
}

// OfficeResponse view.
type OfficeResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	FormationID *int64             `json:"formation_id"`
	Type        *domain.OfficeType `json:"office_type"`
	ParentID    *int64             `json:"parent_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
