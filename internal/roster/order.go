package roster

import (
	"sort"
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// Order selects one of the mutually exclusive roster sort modes.
type Order string

const (
	// OrderDefault sorts by rank ordinal, then present-appointment date,
	// then NIS number.
	OrderDefault Order = "rank"
	// OrderPostingAsc / OrderPostingDesc sort by present-posting date, or by
	// exit date when the query targets exited records.
	OrderPostingAsc  Order = "dopp_asc"
	OrderPostingDesc Order = "dopp_desc"
	// OrderRetirementAsc / OrderRetirementDesc sort by the derived
	// retirement date.
	OrderRetirementAsc  Order = "retirement_asc"
	OrderRetirementDesc Order = "retirement_desc"
)

// ParseOrder maps a sort token onto an Order. Unsupported tokens fall back
// to the default rank order.
func ParseOrder(token string) Order {
	switch Order(token) {
	case OrderPostingAsc, OrderPostingDesc, OrderRetirementAsc, OrderRetirementDesc, OrderDefault:
		return Order(token)
	}
	return OrderDefault
}

// farFuture stands in for absent dates so they sort after every real date in
// ascending mode.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func orDate(d *time.Time) time.Time {
	if d == nil {
		return farFuture
	}
	return *d
}

// Sort orders records in place. Every mode tie-breaks on the NIS number, so
// the result is a strict total order and pagination is stable across calls.
// exited selects the exit date, in place of the posting date, for the
// posting-date modes.
func Sort(records []domain.StaffRecord, order Order, exited bool) {
	var less func(a, b *domain.StaffRecord) bool
	switch order {
	case OrderPostingAsc, OrderPostingDesc:
		key := func(r *domain.StaffRecord) time.Time {
			if exited {
				return orDate(r.ExitDate)
			}
			return orDate(r.DOPP)
		}
		desc := order == OrderPostingDesc
		less = func(a, b *domain.StaffRecord) bool {
			ka, kb := key(a), key(b)
			if !ka.Equal(kb) {
				if desc {
					return kb.Before(ka)
				}
				return ka.Before(kb)
			}
			return a.NISNo < b.NISNo
		}
	case OrderRetirementAsc, OrderRetirementDesc:
		key := func(r *domain.StaffRecord) time.Time {
			due, ok := RetirementDate(r)
			if !ok {
				return farFuture
			}
			return due
		}
		desc := order == OrderRetirementDesc
		less = func(a, b *domain.StaffRecord) bool {
			ka, kb := key(a), key(b)
			if !ka.Equal(kb) {
				if desc {
					return kb.Before(ka)
				}
				return ka.Before(kb)
			}
			return a.NISNo < b.NISNo
		}
	default:
		less = func(a, b *domain.StaffRecord) bool {
			if oa, ob := a.Rank.Ordinal(), b.Rank.Ordinal(); oa != ob {
				return oa < ob
			}
			da, db := orDate(a.DOPA), orDate(b.DOPA)
			if !da.Equal(db) {
				return da.Before(db)
			}
			return a.NISNo < b.NISNo
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return less(&records[i], &records[j])
	})
}
