package dto

import "time"

// StateResponse view.
type StateResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LGAResponse view.
type LGAResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StateID int64  `json:"state_id"`
}

// AuditLogResponse view.
type AuditLogResponse struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Actor     string    `json:"actor"`
	Details   *string   `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
