package roster

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// Status selects active vs exited records.
type Status string

const (
	StatusActive Status = "active"
	StatusExited Status = "exited"
)

// Completeness selects the completeness classification.
type Completeness string

const (
	CompletenessComplete   Completeness = "completed"
	CompletenessIncomplete Completeness = "incomplete"
)

// DefaultLimit bounds a page when the caller does not supply a limit.
const DefaultLimit = 100

// Query carries the full set of roster listing criteria. Multi-valued
// filters OR within their dimension and AND across dimensions; empty slices
// and nil pointers are no-ops.
type Query struct {
	Search         string
	Ranks          []domain.Rank
	Offices        []string
	StateIDs       []int64
	LGAIDs         []int64
	Genders        []string
	FormationIDs   []int64
	Completeness   *Completeness
	Status         *Status
	ExitedFrom     *time.Time
	ExitedTo       *time.Time
	AppointedFrom  *time.Time
	AppointedTo    *time.Time
	RetirementYear *int
	Order          Order
	Limit          int
	Offset         int
}

// Finalize applies the derived classifiers the storage layer cannot compute —
// completeness and the retirement-year filter — then orders, counts and
// paginates. The returned total is the exact match count before pagination.
func Finalize(q Query, records []domain.StaffRecord) ([]domain.StaffRecord, int) {
	kept := records[:0:0]
	for i := range records {
		rec := &records[i]
		if q.Completeness != nil {
			complete := IsComplete(rec)
			if *q.Completeness == CompletenessComplete && !complete {
				continue
			}
			if *q.Completeness == CompletenessIncomplete && complete {
				continue
			}
		}
		if q.RetirementYear != nil && !DueInYear(rec, *q.RetirementYear) {
			continue
		}
		kept = append(kept, *rec)
	}

	exited := q.Status != nil && *q.Status == StatusExited
	Sort(kept, q.Order, exited)

	total := len(kept)
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return kept[offset:end], total
}
