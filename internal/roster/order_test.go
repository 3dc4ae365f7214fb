package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/roster-service/internal/domain"
)

func TestParseOrder(t *testing.T) {
	assert.Equal(t, OrderPostingAsc, ParseOrder("dopp_asc"))
	assert.Equal(t, OrderRetirementDesc, ParseOrder("retirement_desc"))
	assert.Equal(t, OrderDefault, ParseOrder(""))
	assert.Equal(t, OrderDefault, ParseOrder("surname"), "unsupported tokens fall back to rank order")
}

func nisOrder(records []domain.StaffRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.NISNo
	}
	return out
}

func TestSort_DefaultRankOrder(t *testing.T) {
	records := []domain.StaffRecord{
		{NISNo: "C", Rank: domain.RankII, DOPA: date(2015, 1, 1)},
		{NISNo: "B", Rank: domain.RankSI, DOPA: date(2018, 1, 1)},
		{NISNo: "A", Rank: domain.RankSI, DOPA: date(2012, 1, 1)},
		{NISNo: "D", Rank: "unranked"},
	}
	Sort(records, OrderDefault, false)
	assert.Equal(t, []string{"A", "B", "C", "D"}, nisOrder(records),
		"senior rank first, earlier appointment breaking rank ties, unknown ranks last")
}

func TestSort_DefaultTieBreaksOnNIS(t *testing.T) {
	shared := date(2018, 1, 1)
	records := []domain.StaffRecord{
		{NISNo: "B", Rank: domain.RankSI, DOPA: shared},
		{NISNo: "A", Rank: domain.RankSI, DOPA: shared},
	}
	Sort(records, OrderDefault, false)
	assert.Equal(t, []string{"A", "B"}, nisOrder(records))
}

func TestSort_PostingDate(t *testing.T) {
	records := []domain.StaffRecord{
		{NISNo: "A", DOPP: date(2023, 5, 1)},
		{NISNo: "B", DOPP: date(2021, 5, 1)},
		{NISNo: "C"}, // absent date sorts after every real one ascending
	}
	Sort(records, OrderPostingAsc, false)
	assert.Equal(t, []string{"B", "A", "C"}, nisOrder(records))

	Sort(records, OrderPostingDesc, false)
	assert.Equal(t, []string{"C", "A", "B"}, nisOrder(records))
}

func TestSort_PostingUsesExitDateForExitedRecords(t *testing.T) {
	records := []domain.StaffRecord{
		{NISNo: "A", DOPP: date(2010, 1, 1), ExitDate: date(2025, 6, 1)},
		{NISNo: "B", DOPP: date(2020, 1, 1), ExitDate: date(2024, 6, 1)},
	}
	Sort(records, OrderPostingAsc, true)
	assert.Equal(t, []string{"B", "A"}, nisOrder(records))
}

func TestSort_RetirementDate(t *testing.T) {
	records := []domain.StaffRecord{
		{NISNo: "A", Rank: domain.RankSI, DOFA: date(1995, 1, 1)},  // due 2030
		{NISNo: "B", Rank: domain.RankSI, DOFA: date(1992, 1, 1)},  // due 2027
		{NISNo: "C", Rank: domain.RankCGI, DOFA: date(1990, 1, 1)}, // never due
	}
	Sort(records, OrderRetirementAsc, false)
	assert.Equal(t, []string{"B", "A", "C"}, nisOrder(records))
}

func TestSort_IsStable(t *testing.T) {
	shared := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.StaffRecord{
		{NISNo: "C", DOPP: &shared},
		{NISNo: "A", DOPP: &shared},
		{NISNo: "B", DOPP: &shared},
	}
	Sort(records, OrderPostingAsc, false)
	first := nisOrder(records)
	Sort(records, OrderPostingAsc, false)
	assert.Equal(t, first, nisOrder(records), "repeated sorting must not reshuffle equal keys")
	assert.Equal(t, []string{"A", "B", "C"}, first)
}
