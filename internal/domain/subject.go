package domain

// SubjectType distinguishes the two account directories a caller can belong to.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
	SubjectTypeStaff SubjectType = "STAFF"
)
