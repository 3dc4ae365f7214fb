package dto

import "time"

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	NISNo    string `json:"nis_no"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Subject   string    `json:"subject"`
}

// SetPasswordRequest payload.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// CreateAdminRequest payload.
type CreateAdminRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	FormationID *int64 `json:"formation_id"`
}

// AdminAccountResponse view.
type AdminAccountResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	FormationID *int64    `json:"formation_id"`
	CreatedAt   time.Time `json:"created_at"`
}
