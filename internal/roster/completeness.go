package roster

import (
	"strings"

	"github.com/spec-kit/roster-service/internal/domain"
)

// IsComplete reports whether every critical biographical field is present:
// name parts, rank, gender, birth date, phone, state, LGA, office and the
// three career dates. String fields must also be non-blank. "incomplete" is
// defined as the exact negation, so the two classifications partition the
// record set.
func IsComplete(rec *domain.StaffRecord) bool {
	if strings.TrimSpace(rec.Surname) == "" || strings.TrimSpace(rec.OtherNames) == "" {
		return false
	}
	if strings.TrimSpace(string(rec.Rank)) == "" {
		return false
	}
	for _, s := range []*string{rec.Gender, rec.PhoneNo, rec.Office} {
		if s == nil || strings.TrimSpace(*s) == "" {
			return false
		}
	}
	if rec.StateID == nil || rec.LGAID == nil {
		return false
	}
	if rec.DOB == nil || rec.DOFA == nil || rec.DOPA == nil || rec.DOPP == nil {
		return false
	}
	return true
}
