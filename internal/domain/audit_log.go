package domain

import "time"

// AuditLog records a mutating action for later review.
type AuditLog struct {
	ID        int64
	Action    string
	Target    string
	Actor     string
	Details   *string
	Timestamp time.Time
}
