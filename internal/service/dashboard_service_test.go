package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/roster-service/internal/domain"
)

func newDashboardFixture() (*DashboardService, *memStaffRepo, *memFormationRepo) {
	staff := newMemStaffRepo()
	formations := newMemFormationRepo()
	formationSvc := NewFormationService(FormationDependencies{
		FormationRepo: formations,
		Dispatcher:    &captureDispatcher{},
	})
	svc := NewDashboardService(DashboardDependencies{
		StaffRepo:        staff,
		FormationService: formationSvc,
		CacheTTL:         time.Minute,
	})
	return svc, staff, formations
}

func dashboardRecord(nis, gender string, formationID int64) domain.StaffRecord {
	return domain.StaffRecord{
		NISNo: nis, Surname: "Bello", OtherNames: "Kande",
		Rank: domain.RankSI, Gender: sp(gender),
		DOB: dp(1985, 5, 1), PhoneNo: sp("08030000000"),
		StateID: ip(1), LGAID: ip(2), Office: sp("Admin"),
		DOFA: dp(2010, 1, 1), DOPA: dp(2015, 1, 1), DOPP: dp(2020, 1, 1),
		FormationID: &formationID, AllowLogin: true,
	}
}

func TestDashboardStats_FormationScope(t *testing.T) {
	svc, staff, formations := newDashboardFixture()
	ctx := context.Background()

	zone := &domain.Formation{Name: "Zone A", Type: domain.FormationTypeZonalCommand}
	require.NoError(t, formations.Create(ctx, zone))
	stateCmd := &domain.Formation{Name: "Lagos Command", Type: domain.FormationTypeStateCommand, ParentID: &zone.ID}
	require.NoError(t, formations.Create(ctx, stateCmd))
	other := &domain.Formation{Name: "Kano Command", Type: domain.FormationTypeStateCommand}
	require.NoError(t, formations.Create(ctx, other))

	staff.seed(dashboardRecord("NIS/1", "Female", stateCmd.ID))

	incomplete := dashboardRecord("NIS/2", "Male", zone.ID)
	incomplete.PhoneNo = nil
	staff.seed(incomplete)

	// derived retirement date lands today, so the record counts as due this year
	due := dashboardRecord("NIS/3", "Male", stateCmd.ID)
	dofa := time.Now().AddDate(-35, 0, 0)
	dob := time.Now().AddDate(-50, 0, 0)
	due.DOFA = &dofa
	due.DOB = &dob
	staff.seed(due)

	exited := dashboardRecord("NIS/4", "Female", stateCmd.ID)
	mode := domain.ExitModeRetired
	exited.ExitDate = dp(2024, 1, 1)
	exited.ExitMode = &mode
	staff.seed(exited)

	// outside the requested scope
	staff.seed(dashboardRecord("NIS/5", "Male", other.ID))

	stats, err := svc.Stats(ctx, &zone.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{zone.ID, stateCmd.ID}, stats.FormationIDs)
	assert.Equal(t, 3, stats.ActiveTotal)
	assert.Equal(t, 1, stats.ExitedTotal)
	assert.Equal(t, 2, stats.Complete)
	assert.Equal(t, 1, stats.Incomplete)
	assert.Equal(t, 1, stats.DueThisYear)
	assert.Equal(t, map[string]int{"Female": 1, "Male": 2}, stats.ByGender, "exited records stay out of the gender breakdown")
	assert.Equal(t, 3, stats.ByRank[domain.RankSI])
}

func TestDashboardStats_WholeRoster(t *testing.T) {
	svc, staff, _ := newDashboardFixture()
	ctx := context.Background()

	staff.seed(domain.StaffRecord{NISNo: "NIS/1", Surname: "Ojo", OtherNames: "Bisi", Rank: domain.RankII, Gender: sp("Female")})
	unknown := domain.StaffRecord{NISNo: "NIS/2", Surname: "Eze", OtherNames: "Chidi", Rank: domain.RankII}
	staff.seed(unknown)

	stats, err := svc.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, stats.FormationIDs)
	assert.Equal(t, 2, stats.ActiveTotal)
	assert.Equal(t, map[string]int{"Female": 1}, stats.ByGender, "records without a recorded gender are not bucketed")
}
