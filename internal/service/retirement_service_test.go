package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/roster-service/internal/domain"
)

type retirementFixture struct {
	svc           *RetirementService
	staff         *memStaffRepo
	admins        *memAdminRepo
	notifications *memNotificationRepo
	dispatcher    *captureDispatcher
}

func newRetirementFixture(t *testing.T) *retirementFixture {
	t.Helper()
	staff := newMemStaffRepo()
	admins := newMemAdminRepo()
	notifications := newMemNotificationRepo()
	dispatcher := &captureDispatcher{}
	notifier := NewNotificationService(NotificationDependencies{
		NotificationRepo: notifications,
		AdminRepo:        admins,
		StaffRepo:        staff,
		UnitOfWork:       passthroughUOW{},
	})
	svc := NewRetirementService(RetirementDependencies{
		StaffRepo:  staff,
		Notifier:   notifier,
		UnitOfWork: passthroughUOW{},
		Dispatcher: dispatcher,
	})
	return &retirementFixture{
		svc:           svc,
		staff:         staff,
		admins:        admins,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

func TestProcessDueRetirements(t *testing.T) {
	f := newRetirementFixture(t)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// stored exit date arrived with no exit mode recorded
	scheduledID := f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/SCHED", Surname: "Eze", OtherNames: "Chidi",
		Rank: domain.RankII, ExitDate: dp(2026, 7, 15), AllowLogin: true,
	})
	// derived retirement date long past, but no exit date stored
	derivedID := f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/DERIVED", Surname: "Garba", OtherNames: "Sani",
		Rank: domain.RankSI, DOFA: dp(1988, 3, 1), AllowLogin: true,
	})
	// exempt rank, exit date stored but never retired by the scan
	exemptID := f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/CGI", Surname: "Abubakar", OtherNames: "Umar",
		Rank: domain.RankCGI, ExitDate: dp(2026, 6, 1), AllowLogin: true,
	})
	// exit date still ahead of the scan date
	pendingID := f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/NEW", Surname: "Ojo", OtherNames: "Bisi",
		Rank: domain.RankAII, ExitDate: dp(2026, 12, 31), AllowLogin: true,
	})

	result, err := f.svc.ProcessDueRetirements(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.NotEmpty(t, result.BatchID)

	scheduled, err := f.staff.GetByID(ctx, scheduledID)
	require.NoError(t, err)
	require.NotNil(t, scheduled.ExitMode)
	assert.Equal(t, domain.ExitModeRetired, *scheduled.ExitMode)
	require.NotNil(t, scheduled.ExitDate)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), *scheduled.ExitDate, "the stored exit date stays authoritative")
	assert.False(t, scheduled.AllowLogin)

	derived, err := f.staff.GetByID(ctx, derivedID)
	require.NoError(t, err)
	assert.Nil(t, derived.ExitDate, "a passed derived date alone never triggers an exit")
	assert.Nil(t, derived.ExitMode)
	assert.True(t, derived.AllowLogin)

	exempt, err := f.staff.GetByID(ctx, exemptID)
	require.NoError(t, err)
	assert.Nil(t, exempt.ExitMode)
	assert.True(t, exempt.AllowLogin)

	pending, err := f.staff.GetByID(ctx, pendingID)
	require.NoError(t, err)
	assert.Nil(t, pending.ExitMode)

	retiredEvents := f.dispatcher.ofType("staff_retired")
	require.Len(t, retiredEvents, 1)
	assert.Equal(t, "retirement-scan", retiredEvents[0].Actor.Username)
}

func TestProcessDueRetirements_SkipsRecordsWithoutStoredExitDate(t *testing.T) {
	f := newRetirementFixture(t)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// dofa+35y fell due decades ago
	id := f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/ELDER", Surname: "Bello", OtherNames: "Kande",
		Rank: domain.RankSI, DOFA: dp(1980, 1, 1), DOB: dp(1955, 1, 1), AllowLogin: true,
	})

	result, err := f.svc.ProcessDueRetirements(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, result.BatchID)

	rec, err := f.staff.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, rec.ExitDate)
	assert.Nil(t, rec.ExitMode)
	assert.True(t, rec.AllowLogin)
	assert.Empty(t, f.notifications.notifications)
}

func TestProcessDueRetirements_SecondScanIsIdempotent(t *testing.T) {
	f := newRetirementFixture(t)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/DUE", Surname: "Garba", OtherNames: "Sani",
		Rank: domain.RankSI, ExitDate: dp(2026, 7, 15),
	})

	first, err := f.svc.ProcessDueRetirements(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := f.svc.ProcessDueRetirements(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Empty(t, second.BatchID, "an empty scan reports no batch")
}

func TestProcessDueRetirements_NotifiesAllTiers(t *testing.T) {
	f := newRetirementFixture(t)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	formationID := int64(7)
	special := &domain.AdminAccount{Username: "special", Role: domain.AdminRoleSpecial}
	require.NoError(t, f.admins.Create(ctx, special))
	formationAdmin := &domain.AdminAccount{Username: "zone7", Role: domain.AdminRoleFormation, FormationID: &formationID}
	require.NoError(t, f.admins.Create(ctx, formationAdmin))

	mainAdminID := f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/MAIN", Surname: "Main", OtherNames: "Admin",
		Rank: domain.RankCSI, Role: domain.StaffRoleMainAdmin,
	})
	officeAdminID := f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/OFFICE", Surname: "Office", OtherNames: "Admin",
		Rank: domain.RankSI, Role: domain.StaffRoleOfficeAdmin,
		Office: sp("Finance"), FormationID: &formationID,
	})
	f.staff.seed(domain.StaffRecord{
		NISNo: "NIS/RET", Surname: "Garba", OtherNames: "Sani",
		Rank: domain.RankSI, ExitDate: dp(2026, 7, 1),
		Office: sp("finance"), FormationID: &formationID,
	})

	result, err := f.svc.ProcessDueRetirements(ctx, asOf)
	require.NoError(t, err)
	require.Equal(t, 1, result.Processed)

	require.Len(t, f.notifications.notifications, 4, "one notification per tier recipient")
	for _, notif := range f.notifications.notifications {
		assert.Equal(t, result.BatchID, notif.BatchID)
		assert.Contains(t, notif.Message, "NIS/RET")
		assert.Contains(t, notif.Message, "Garba Sani")
	}

	specialFeed, err := f.notifications.ListForAdmin(ctx, special.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, specialFeed, 1)

	formationFeed, err := f.notifications.ListForAdmin(ctx, formationAdmin.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, formationFeed, 1)

	mainFeed, err := f.notifications.ListForStaff(ctx, mainAdminID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mainFeed, 1)

	officeFeed, err := f.notifications.ListForStaff(ctx, officeAdminID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, officeFeed, 1, "office name matches case-insensitively")
}
