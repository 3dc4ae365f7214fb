// Package roster is the storage-independent core of the roster query engine:
// derived retirement dates, the completeness classifier, order comparators and
// page finalization. Repositories fetch raw rows; every derived computation
// lives here so it cannot drift between backends.
package roster

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

const (
	// RetirementAgeYears caps service at 60 years of age.
	RetirementAgeYears = 60
	// RetirementServiceYears caps service at 35 years from first appointment.
	RetirementServiceYears = 35
)

// RetirementDate derives the date a record becomes due for retirement: the
// earlier of dob+60y and dofa+35y. A missing input date does not constrain
// the minimum. The second return is false when the record never retires —
// exempt rank, or both inputs absent.
func RetirementDate(rec *domain.StaffRecord) (time.Time, bool) {
	if rec.Rank.Exempt() {
		return time.Time{}, false
	}
	var due time.Time
	var ok bool
	if rec.DOB != nil {
		due = rec.DOB.AddDate(RetirementAgeYears, 0, 0)
		ok = true
	}
	if rec.DOFA != nil {
		byService := rec.DOFA.AddDate(RetirementServiceYears, 0, 0)
		if !ok || byService.Before(due) {
			due = byService
			ok = true
		}
	}
	return due, ok
}

// DueInYear reports whether the derived retirement date falls in the given
// calendar year.
func DueInYear(rec *domain.StaffRecord, year int) bool {
	due, ok := RetirementDate(rec)
	return ok && due.Year() == year
}
