package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/roster-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func completeRecord() domain.StaffRecord {
	return domain.StaffRecord{
		NISNo:      "NIS/001",
		Surname:    "Adeyemi",
		OtherNames: "Tunde",
		Rank:       domain.RankSI,
		Gender:     strPtr("M"),
		PhoneNo:    strPtr("08030000000"),
		Office:     strPtr("Finance"),
		StateID:    int64Ptr(25),
		LGAID:      int64Ptr(511),
		DOB:        date(1975, 4, 2),
		DOFA:       date(1998, 9, 1),
		DOPA:       date(2018, 1, 1),
		DOPP:       date(2022, 3, 1),
	}
}

func TestIsComplete(t *testing.T) {
	rec := completeRecord()
	assert.True(t, IsComplete(&rec))
}

func TestIsComplete_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.StaffRecord)
	}{
		{"blank surname", func(r *domain.StaffRecord) { r.Surname = "  " }},
		{"blank other names", func(r *domain.StaffRecord) { r.OtherNames = "" }},
		{"blank rank", func(r *domain.StaffRecord) { r.Rank = " " }},
		{"nil gender", func(r *domain.StaffRecord) { r.Gender = nil }},
		{"blank phone", func(r *domain.StaffRecord) { r.PhoneNo = strPtr("") }},
		{"nil office", func(r *domain.StaffRecord) { r.Office = nil }},
		{"nil state", func(r *domain.StaffRecord) { r.StateID = nil }},
		{"nil lga", func(r *domain.StaffRecord) { r.LGAID = nil }},
		{"nil dob", func(r *domain.StaffRecord) { r.DOB = nil }},
		{"nil dofa", func(r *domain.StaffRecord) { r.DOFA = nil }},
		{"nil dopa", func(r *domain.StaffRecord) { r.DOPA = nil }},
		{"nil dopp", func(r *domain.StaffRecord) { r.DOPP = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			tt.mutate(&rec)
			assert.False(t, IsComplete(&rec))
		})
	}
}
