package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/roster-service/internal/domain"
)

func TestFinalize_CompletenessFilter(t *testing.T) {
	complete := completeRecord()
	complete.NISNo = "NIS/C"
	incomplete := completeRecord()
	incomplete.NISNo = "NIS/I"
	incomplete.PhoneNo = nil
	records := []domain.StaffRecord{complete, incomplete}

	want := CompletenessComplete
	page, total := Finalize(Query{Completeness: &want}, records)
	require.Equal(t, 1, total)
	assert.Equal(t, "NIS/C", page[0].NISNo)

	want = CompletenessIncomplete
	page, total = Finalize(Query{Completeness: &want}, records)
	require.Equal(t, 1, total)
	assert.Equal(t, "NIS/I", page[0].NISNo)
}

func TestFinalize_RetirementYearFilter(t *testing.T) {
	records := []domain.StaffRecord{
		{NISNo: "A", Rank: domain.RankSI, DOFA: date(1991, 3, 1)}, // due 2026
		{NISNo: "B", Rank: domain.RankSI, DOFA: date(1993, 3, 1)}, // due 2028
		{NISNo: "C", Rank: domain.RankCGI, DOFA: date(1991, 3, 1)},
	}
	year := 2026
	page, total := Finalize(Query{RetirementYear: &year}, records)
	require.Equal(t, 1, total)
	assert.Equal(t, "A", page[0].NISNo)
}

func TestFinalize_TotalCountsBeforePagination(t *testing.T) {
	records := make([]domain.StaffRecord, 0, 5)
	for _, nis := range []string{"A", "B", "C", "D", "E"} {
		records = append(records, domain.StaffRecord{NISNo: nis, Rank: domain.RankSI})
	}
	page, total := Finalize(Query{Limit: 2, Offset: 2}, records)
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"C", "D"}, nisOrder(page))
}

func TestFinalize_OffsetPastEnd(t *testing.T) {
	records := []domain.StaffRecord{{NISNo: "A", Rank: domain.RankSI}}
	page, total := Finalize(Query{Limit: 10, Offset: 50}, records)
	assert.Equal(t, 1, total)
	assert.Empty(t, page)
}

func TestFinalize_NegativeOffsetClampsToZero(t *testing.T) {
	records := []domain.StaffRecord{{NISNo: "A", Rank: domain.RankSI}}
	page, total := Finalize(Query{Offset: -3}, records)
	assert.Equal(t, 1, total)
	assert.Len(t, page, 1)
}

func TestFinalize_DefaultLimit(t *testing.T) {
	records := make([]domain.StaffRecord, DefaultLimit+20)
	for i := range records {
		records[i] = domain.StaffRecord{NISNo: string(rune('a' + i%26)), Rank: domain.RankSI}
	}
	page, total := Finalize(Query{}, records)
	assert.Equal(t, DefaultLimit+20, total)
	assert.Len(t, page, DefaultLimit)
}

func TestFinalize_ExitedQueryOrdersByExitDate(t *testing.T) {
	exited := StatusExited
	records := []domain.StaffRecord{
		{NISNo: "A", ExitDate: date(2025, 3, 1)},
		{NISNo: "B", ExitDate: date(2024, 3, 1)},
	}
	page, _ := Finalize(Query{Status: &exited, Order: OrderPostingAsc}, records)
	assert.Equal(t, []string{"B", "A"}, nisOrder(page))
}
