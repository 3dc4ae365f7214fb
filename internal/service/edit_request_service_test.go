package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
)

type editRequestFixture struct {
	svc      *EditRequestService
	staff    *memStaffRepo
	requests *memEditRequestRepo
	staffID  int64
}

func newEditRequestFixture(t *testing.T) *editRequestFixture {
	t.Helper()
	staff := newMemStaffRepo()
	requests := newMemEditRequestRepo()
	svc := NewEditRequestService(EditRequestDependencies{
		RequestRepo: requests,
		StaffRepo:   staff,
		UnitOfWork:  passthroughUOW{},
		Dispatcher:  &captureDispatcher{},
	})
	staffID := staff.seed(domain.StaffRecord{
		NISNo:   "NIS/100",
		Surname: "Okoro",
		Rank:    domain.RankII,
	})
	return &editRequestFixture{svc: svc, staff: staff, requests: requests, staffID: staffID}
}

func textChange(field domain.EditField, value string) domain.ChangeSet {
	return domain.ChangeSet{field: domain.FieldValue{Text: &value}}
}

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	f := newEditRequestFixture(t)
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, f.staffID, textChange(domain.EditFieldSurname, "Okafor"), false, testActor())
	require.NoError(t, err)
	assert.Equal(t, domain.EditRequestPending, req.Status)
	assert.Equal(t, "tester", req.SubmittedBy)
	assert.NotZero(t, req.ID)

	// the record itself is untouched until approval
	rec, err := f.staff.GetByID(ctx, f.staffID)
	require.NoError(t, err)
	assert.Equal(t, "Okoro", rec.Surname)
}

func TestSubmit_MergesIntoPending(t *testing.T) {
	f := newEditRequestFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.staffID, domain.ChangeSet{
		domain.EditFieldSurname: {Text: sp("Okafor")},
		domain.EditFieldPhoneNo: {Text: sp("0801")},
	}, false, testActor())
	require.NoError(t, err)

	resubmitter := events.Actor{Type: domain.SubjectTypeStaff, Username: "NIS/100"}
	second, err := f.svc.Submit(ctx, f.staffID, domain.ChangeSet{
		domain.EditFieldPhoneNo:  {Text: sp("0802")},
		domain.EditFieldHomeTown: {Text: sp("Aba")},
	}, false, resubmitter)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "resubmission merges, never duplicates")
	require.Len(t, second.Changes, 3)
	assert.Equal(t, "Okafor", *second.Changes[domain.EditFieldSurname].Text)
	assert.Equal(t, "0802", *second.Changes[domain.EditFieldPhoneNo].Text)
	assert.Equal(t, "Aba", *second.Changes[domain.EditFieldHomeTown].Text)
	assert.Equal(t, "NIS/100", second.SubmittedBy, "the merged request carries the latest submitter")
}

func TestSubmit_EmptyChangeSet(t *testing.T) {
	f := newEditRequestFixture(t)
	_, err := f.svc.Submit(context.Background(), f.staffID, domain.ChangeSet{}, false, testActor())
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestSubmit_GatedFieldWithoutFlag(t *testing.T) {
	f := newEditRequestFixture(t)
	_, err := f.svc.Submit(context.Background(), f.staffID, textChange(domain.EditFieldRank, string(domain.RankSI)), false, testActor())
	assert.Equal(t, "FORBIDDEN_FIELD", domainCode(err))
}

func TestSubmit_ElevatedBypassesFlags(t *testing.T) {
	f := newEditRequestFixture(t)
	req, err := f.svc.Submit(context.Background(), f.staffID, textChange(domain.EditFieldRank, string(domain.RankSI)), true, testActor())
	require.NoError(t, err)
	assert.Equal(t, domain.EditRequestPending, req.Status)
}

func TestSubmit_ForbiddenFieldBindsEveryone(t *testing.T) {
	f := newEditRequestFixture(t)
	_, err := f.svc.Submit(context.Background(), f.staffID, textChange("role", "main_admin"), true, testActor())
	assert.Equal(t, "FORBIDDEN_FIELD", domainCode(err))
}

func TestSubmit_UnknownStaff(t *testing.T) {
	f := newEditRequestFixture(t)
	_, err := f.svc.Submit(context.Background(), 404, textChange(domain.EditFieldSurname, "X"), false, testActor())
	assert.Equal(t, "NOT_FOUND", domainCode(err))
}

func TestApprove_AppliesChanges(t *testing.T) {
	f := newEditRequestFixture(t)
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, f.staffID, textChange(domain.EditFieldSurname, "Okafor"), false, testActor())
	require.NoError(t, err)

	resolved, err := f.svc.Approve(ctx, req.ID, testActor())
	require.NoError(t, err)
	assert.Equal(t, domain.EditRequestApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "tester", *resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	rec, err := f.staff.GetByID(ctx, f.staffID)
	require.NoError(t, err)
	assert.Equal(t, "Okafor", rec.Surname)
}

func TestApprove_AlreadyResolved(t *testing.T) {
	f := newEditRequestFixture(t)
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, f.staffID, textChange(domain.EditFieldSurname, "Okafor"), false, testActor())
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, req.ID, testActor())
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, req.ID, testActor())
	assert.Equal(t, "CONFLICT", domainCode(err))
	_, err = f.svc.Reject(ctx, req.ID, testActor())
	assert.Equal(t, "CONFLICT", domainCode(err))
}

func TestReject_LeavesRecordUntouched(t *testing.T) {
	f := newEditRequestFixture(t)
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, f.staffID, textChange(domain.EditFieldSurname, "Okafor"), false, testActor())
	require.NoError(t, err)

	resolved, err := f.svc.Reject(ctx, req.ID, testActor())
	require.NoError(t, err)
	assert.Equal(t, domain.EditRequestRejected, resolved.Status)

	rec, err := f.staff.GetByID(ctx, f.staffID)
	require.NoError(t, err)
	assert.Equal(t, "Okoro", rec.Surname)
}

func TestListRequests_UnknownStatus(t *testing.T) {
	f := newEditRequestFixture(t)
	_, err := f.svc.ListRequests(context.Background(), "SOMEDAY", 10, 0)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}
