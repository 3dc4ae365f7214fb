package domain

import "time"

// Notification is addressed to exactly one recipient: either an admin account
// or a staff account, never both. BatchID groups the notifications created by
// one broadcast invocation.
type Notification struct {
	ID        int64
	Message   string
	AdminID   *int64
	StaffID   *int64
	BatchID   string
	Read      bool
	CreatedAt time.Time
}
