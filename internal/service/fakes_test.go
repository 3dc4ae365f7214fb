package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

func sp(s string) *string { return &s }

func ip(v int64) *int64 { return &v }

func dp(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func testActor() events.Actor {
	return events.Actor{Type: domain.SubjectTypeAdmin, Username: "tester", AdminID: ip(1)}
}

// domainCode extracts the error code for assertions.
func domainCode(err error) string {
	var de *errorutil.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// passthroughUOW satisfies persistence.UnitOfWork without a database.
type passthroughUOW struct{}

func (passthroughUOW) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) ofType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range d.published {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// memStaffRepo keeps records in a map and hands out copies, so mutations only
// persist through Update, the way a real store behaves.
type memStaffRepo struct {
	nextID  int64
	records map[int64]*domain.StaffRecord
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{records: map[int64]*domain.StaffRecord{}}
}

func (r *memStaffRepo) seed(rec domain.StaffRecord) int64 {
	if rec.ID == 0 {
		r.nextID++
		rec.ID = r.nextID
	} else if rec.ID > r.nextID {
		r.nextID = rec.ID
	}
	stored := rec
	r.records[rec.ID] = &stored
	return rec.ID
}

func (r *memStaffRepo) Create(_ context.Context, rec *domain.StaffRecord) error {
	r.nextID++
	rec.ID = r.nextID
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	stored := *rec
	r.records[rec.ID] = &stored
	return nil
}

func (r *memStaffRepo) Update(_ context.Context, rec *domain.StaffRecord) error {
	if _, ok := r.records[rec.ID]; !ok {
		return pgx.ErrNoRows
	}
	rec.UpdatedAt = time.Now()
	stored := *rec
	r.records[rec.ID] = &stored
	return nil
}

func (r *memStaffRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, id)
	return nil
}

func (r *memStaffRepo) GetByID(_ context.Context, id int64) (*domain.StaffRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *rec
	return &out, nil
}

func (r *memStaffRepo) GetByNIS(_ context.Context, nisNo string) (*domain.StaffRecord, error) {
	for _, rec := range r.records {
		if rec.NISNo == nisNo {
			out := *rec
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memStaffRepo) Search(_ context.Context, q roster.Query) ([]domain.StaffRecord, error) {
	var out []domain.StaffRecord
	for _, rec := range r.records {
		if q.Status != nil {
			if *q.Status == roster.StatusActive && !rec.Active() {
				continue
			}
			if *q.Status == roster.StatusExited && rec.Active() {
				continue
			}
		}
		if len(q.FormationIDs) > 0 {
			if rec.FormationID == nil {
				continue
			}
			found := false
			for _, id := range q.FormationIDs {
				if *rec.FormationID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *memStaffRepo) ListDueForRetirement(_ context.Context, asOf time.Time) ([]domain.StaffRecord, error) {
	var out []domain.StaffRecord
	for _, rec := range r.records {
		if rec.ExitDate != nil && rec.ExitMode == nil && !rec.ExitDate.After(asOf) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memStaffRepo) ListByRole(_ context.Context, role domain.StaffRole) ([]domain.StaffRecord, error) {
	var out []domain.StaffRecord
	for _, rec := range r.records {
		if rec.Active() && rec.Role == role {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memStaffRepo) ListOfficeAdmins(_ context.Context, officeName string, formationID int64) ([]domain.StaffRecord, error) {
	var out []domain.StaffRecord
	for _, rec := range r.records {
		if !rec.Active() || rec.Role != domain.StaffRoleOfficeAdmin {
			continue
		}
		if rec.Office == nil || !strings.EqualFold(*rec.Office, officeName) {
			continue
		}
		if rec.FormationID == nil || *rec.FormationID != formationID {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

type memFormationRepo struct {
	nextID     int64
	formations map[int64]*domain.Formation
}

func newMemFormationRepo() *memFormationRepo {
	return &memFormationRepo{formations: map[int64]*domain.Formation{}}
}

func (r *memFormationRepo) Create(_ context.Context, formation *domain.Formation) error {
	r.nextID++
	formation.ID = r.nextID
	formation.CreatedAt = time.Now()
	formation.UpdatedAt = formation.CreatedAt
	stored := *formation
	r.formations[formation.ID] = &stored
	return nil
}

func (r *memFormationRepo) Update(_ context.Context, formation *domain.Formation) error {
	if _, ok := r.formations[formation.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *formation
	r.formations[formation.ID] = &stored
	return nil
}

func (r *memFormationRepo) GetByID(_ context.Context, id int64) (*domain.Formation, error) {
	formation, ok := r.formations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *formation
	return &out, nil
}

func (r *memFormationRepo) GetHeadquarters(_ context.Context) (*domain.Formation, error) {
	for _, formation := range r.formations {
		if formation.Type == domain.FormationTypeServiceHQ {
			out := *formation
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memFormationRepo) GetChildByName(_ context.Context, parentID int64, name string) (*domain.Formation, error) {
	for _, formation := range r.formations {
		if formation.ParentID != nil && *formation.ParentID == parentID && strings.EqualFold(formation.Name, name) {
			out := *formation
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memFormationRepo) ListChildren(_ context.Context, parentID int64) ([]domain.Formation, error) {
	var out []domain.Formation
	for _, formation := range r.formations {
		if formation.ParentID != nil && *formation.ParentID == parentID {
			out = append(out, *formation)
		}
	}
	return out, nil
}

func (r *memFormationRepo) List(_ context.Context) ([]domain.Formation, error) {
	var out []domain.Formation
	for _, formation := range r.formations {
		out = append(out, *formation)
	}
	return out, nil
}

type memEditRequestRepo struct {
	nextID   int64
	requests map[int64]*domain.EditRequest
}

func newMemEditRequestRepo() *memEditRequestRepo {
	return &memEditRequestRepo{requests: map[int64]*domain.EditRequest{}}
}

func (r *memEditRequestRepo) Create(_ context.Context, req *domain.EditRequest) error {
	r.nextID++
	req.ID = r.nextID
	req.SubmittedAt = time.Now()
	stored := *req
	stored.Changes = req.Changes.Clone()
	r.requests[req.ID] = &stored
	return nil
}

func (r *memEditRequestRepo) GetByID(_ context.Context, id int64) (*domain.EditRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *req
	out.Changes = req.Changes.Clone()
	return &out, nil
}

func (r *memEditRequestRepo) GetPendingForUpdate(_ context.Context, staffID int64) (*domain.EditRequest, error) {
	for _, req := range r.requests {
		if req.StaffID == staffID && req.Status == domain.EditRequestPending {
			out := *req
			out.Changes = req.Changes.Clone()
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memEditRequestRepo) UpdateChanges(_ context.Context, req *domain.EditRequest) error {
	stored, ok := r.requests[req.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Changes = req.Changes.Clone()
	stored.SubmittedBy = req.SubmittedBy
	stored.SubmittedAt = time.Now()
	return nil
}

func (r *memEditRequestRepo) Resolve(_ context.Context, req *domain.EditRequest) error {
	stored, ok := r.requests[req.ID]
	if !ok || stored.Status != domain.EditRequestPending {
		// mirrors the conditional UPDATE matching zero rows
		return pgx.ErrNoRows
	}
	stored.Status = req.Status
	stored.ResolvedBy = req.ResolvedBy
	stored.ResolvedAt = req.ResolvedAt
	return nil
}

func (r *memEditRequestRepo) ListByStatus(_ context.Context, status domain.EditRequestStatus, limit, offset int) ([]domain.EditRequest, error) {
	var out []domain.EditRequest
	for _, req := range r.requests {
		if req.Status == status {
			copied := *req
			copied.Changes = req.Changes.Clone()
			out = append(out, copied)
		}
	}
	return out, nil
}

type memNotificationRepo struct {
	nextID        int64
	notifications []*domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(_ context.Context, notif *domain.Notification) error {
	r.nextID++
	notif.ID = r.nextID
	notif.CreatedAt = time.Now()
	stored := *notif
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *memNotificationRepo) ListForAdmin(_ context.Context, adminID int64, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, notif := range r.notifications {
		if notif.AdminID != nil && *notif.AdminID == adminID {
			out = append(out, *notif)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) ListForStaff(_ context.Context, staffID int64, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, notif := range r.notifications {
		if notif.StaffID != nil && *notif.StaffID == staffID {
			out = append(out, *notif)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id int64) error {
	for _, notif := range r.notifications {
		if notif.ID == id {
			notif.Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memOfficeRepo struct {
	nextID  int64
	offices map[int64]*domain.Office
}

func newMemOfficeRepo() *memOfficeRepo {
	return &memOfficeRepo{offices: map[int64]*domain.Office{}}
}

func (r *memOfficeRepo) Create(_ context.Context, office *domain.Office) error {
	r.nextID++
	office.ID = r.nextID
	office.CreatedAt = time.Now()
	office.UpdatedAt = office.CreatedAt
	stored := *office
	r.offices[office.ID] = &stored
	return nil
}

func (r *memOfficeRepo) Update(_ context.Context, office *domain.Office) error {
	if _, ok := r.offices[office.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *office
	r.offices[office.ID] = &stored
	return nil
}

func (r *memOfficeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.offices[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.offices, id)
	return nil
}

func (r *memOfficeRepo) GetByID(_ context.Context, id int64) (*domain.Office, error) {
	office, ok := r.offices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *office
	return &out, nil
}

func (r *memOfficeRepo) GetByNameInFormation(_ context.Context, name string, formationID *int64) (*domain.Office, error) {
	for _, office := range r.offices {
		if !strings.EqualFold(office.Name, name) {
			continue
		}
		if (office.FormationID == nil) != (formationID == nil) {
			continue
		}
		if formationID != nil && *office.FormationID != *formationID {
			continue
		}
		out := *office
		return &out, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memOfficeRepo) List(_ context.Context, formationID *int64) ([]domain.Office, error) {
	var out []domain.Office
	for _, office := range r.offices {
		if formationID != nil && (office.FormationID == nil || *office.FormationID != *formationID) {
			continue
		}
		out = append(out, *office)
	}
	return out, nil
}

type memAuditRepo struct {
	nextID  int64
	entries []domain.AuditLog
}

func newMemAuditRepo() *memAuditRepo { return &memAuditRepo{} }

func (r *memAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.nextID++
	entry.ID = r.nextID
	entry.Timestamp = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, limit, offset int) ([]domain.AuditLog, error) {
	out := make([]domain.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

type memAdminRepo struct {
	nextID   int64
	accounts map[int64]*domain.AdminAccount
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{accounts: map[int64]*domain.AdminAccount{}}
}

func (r *memAdminRepo) Create(_ context.Context, account *domain.AdminAccount) error {
	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	stored := *account
	r.accounts[account.ID] = &stored
	return nil
}

func (r *memAdminRepo) GetByID(_ context.Context, id int64) (*domain.AdminAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *account
	return &out, nil
}

func (r *memAdminRepo) GetByUsername(_ context.Context, username string) (*domain.AdminAccount, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			out := *account
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAdminRepo) ListByRole(_ context.Context, role domain.AdminRole) ([]domain.AdminAccount, error) {
	var out []domain.AdminAccount
	for _, account := range r.accounts {
		if account.Role == role {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *memAdminRepo) ListFormationAdmins(_ context.Context, formationID int64) ([]domain.AdminAccount, error) {
	var out []domain.AdminAccount
	for _, account := range r.accounts {
		if account.Role == domain.AdminRoleFormation && account.FormationID != nil && *account.FormationID == formationID {
			out = append(out, *account)
		}
	}
	return out, nil
}
