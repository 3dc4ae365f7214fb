package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// StaffService coordinates roster record workflows.
type StaffService struct {
	staff      repository.StaffRepository
	formations repository.FormationRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// StaffDependencies bundles collaborators for the staff service.
type StaffDependencies struct {
	StaffRepo     repository.StaffRepository
	FormationRepo repository.FormationRepository
	Dispatcher    events.Dispatcher
	BcryptCost    int
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		formations: deps.FormationRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

// RosterPage is one page of roster results plus the exact pre-pagination
// match count.
type RosterPage struct {
	Records []domain.StaffRecord
	Total   int
}

// StaffCreateInput describes a new roster record.
type StaffCreateInput struct {
	NISNo         string
	Surname       string
	OtherNames    string
	Rank          domain.Rank
	Gender        *string
	DOFA          *time.Time
	DOPA          *time.Time
	DOPP          *time.Time
	DOB           *time.Time
	StateID       *int64
	LGAID         *int64
	HomeTown      *string
	Qualification *string
	PhoneNo       *string
	NextOfKin     *string
	NOKPhone      *string
	Office        *string
	Remark        *string
	FormationID   *int64
	Role          domain.StaffRole
	Password      string
	AllowLogin    bool
}

// ListRoster runs a roster query: storage-expressible filters in the
// repository, derived classification, ordering and pagination in the roster
// package. Formation filters are taken literally; scope expansion is the
// caller's decision.
func (s *StaffService) ListRoster(ctx context.Context, q roster.Query) (*RosterPage, error) {
	records, err := s.staff.Search(ctx, q)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	page, total := roster.Finalize(q, records)
	return &RosterPage{Records: page, Total: total}, nil
}

// CreateStaff registers a new roster record under a unique NIS number.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffCreateInput, actor events.Actor) (*domain.StaffRecord, error) {
	nis := strings.TrimSpace(input.NISNo)
	if nis == "" {
		return nil, errorutil.NewValidationError("nis number is required", nil)
	}
	if strings.TrimSpace(input.Surname) == "" {
		return nil, errorutil.NewValidationError("surname is required", nil)
	}
	if !input.Rank.Known() {
		return nil, errorutil.NewValidationError("unknown rank", map[string]any{"rank": input.Rank})
	}
	role := input.Role
	if role == "" {
		role = domain.StaffRoleStaff
	}
	if !domain.ValidStaffRole(role) {
		return nil, errorutil.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if input.FormationID != nil {
		if _, err := s.formations.GetByID(ctx, *input.FormationID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewNotFound("formation", map[string]any{"formation_id": *input.FormationID})
			}
			return nil, errorutil.MapError(err)
		}
	}
	if existing, err := s.staff.GetByNIS(ctx, nis); err == nil && existing != nil {
		return nil, errorutil.NewConflict("nis number already registered", map[string]any{"nis_no": nis})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}

	rec := &domain.StaffRecord{
		NISNo:         nis,
		Surname:       strings.TrimSpace(input.Surname),
		OtherNames:    strings.TrimSpace(input.OtherNames),
		Rank:          input.Rank,
		Gender:        input.Gender,
		DOFA:          input.DOFA,
		DOPA:          input.DOPA,
		DOPP:          input.DOPP,
		DOB:           input.DOB,
		StateID:       input.StateID,
		LGAID:         input.LGAID,
		HomeTown:      input.HomeTown,
		Qualification: input.Qualification,
		PhoneNo:       input.PhoneNo,
		NextOfKin:     input.NextOfKin,
		NOKPhone:      input.NOKPhone,
		Office:        input.Office,
		Remark:        input.Remark,
		FormationID:   input.FormationID,
		Role:          role,
		AllowLogin:    input.AllowLogin,
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, errorutil.NewInternalError(err)
		}
		rec.PasswordHash = hash
	}
	if err := s.staff.Create(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffCreated,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffChangedPayload{
			StaffID: rec.ID,
			NISNo:   rec.NISNo,
		},
	})
	return rec, nil
}

// GetStaff fetches a record by id.
func (s *StaffService) GetStaff(ctx context.Context, id int64) (*domain.StaffRecord, error) {
	rec, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("staff record", map[string]any{"id": id})
		}
		return nil, errorutil.MapError(err)
	}
	return rec, nil
}

// GetStaffByNIS fetches a record by its NIS number.
func (s *StaffService) GetStaffByNIS(ctx context.Context, nisNo string) (*domain.StaffRecord, error) {
	rec, err := s.staff.GetByNIS(ctx, strings.TrimSpace(nisNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("staff record", map[string]any{"nis_no": nisNo})
		}
		return nil, errorutil.MapError(err)
	}
	return rec, nil
}

// UpdateStaff applies a change-set directly to a record. The caller is an
// administrator, so per-record permission flags are bypassed; the field
// allowlist and denylist still hold.
func (s *StaffService) UpdateStaff(ctx context.Context, id int64, changes domain.ChangeSet, actor events.Actor) (*domain.StaffRecord, error) {
	if len(changes) == 0 {
		return nil, errorutil.NewValidationError("empty change set", nil)
	}
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := changes.Apply(rec, true); err != nil {
		return nil, errorutil.NewForbiddenField(err.Error())
	}
	if err := s.staff.Update(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffUpdated,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffChangedPayload{
			StaffID: rec.ID,
			NISNo:   rec.NISNo,
			Fields:  changedFields(changes),
		},
	})
	return rec, nil
}

// AssignPosting moves a record to a formation and office. Posting moves only
// through this administrative flow, never through a change-set.
func (s *StaffService) AssignPosting(ctx context.Context, id int64, formationID *int64, office *string, actor events.Actor) (*domain.StaffRecord, error) {
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if formationID != nil {
		if _, err := s.formations.GetByID(ctx, *formationID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewNotFound("formation", map[string]any{"formation_id": *formationID})
			}
			return nil, errorutil.MapError(err)
		}
	}
	rec.FormationID = formationID
	rec.Office = office
	now := time.Now()
	rec.DOPP = &now
	if err := s.staff.Update(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffUpdated,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffChangedPayload{
			StaffID: rec.ID,
			NISNo:   rec.NISNo,
			Fields:  []string{"formation_id", "office", "dopp"},
		},
	})
	return rec, nil
}

// SetEditFlags toggles the per-record permission flags gating restricted
// fields in the edit-request workflow.
func (s *StaffService) SetEditFlags(ctx context.Context, id int64, allowRank, allowDOPP bool, actor events.Actor) (*domain.StaffRecord, error) {
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.AllowEditRank = allowRank
	rec.AllowEditDOPP = allowDOPP
	if err := s.staff.Update(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffUpdated,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffChangedPayload{
			StaffID: rec.ID,
			NISNo:   rec.NISNo,
			Fields:  []string{"allow_edit_rank", "allow_edit_dopp"},
		},
	})
	return rec, nil
}

// ChangeRole reassigns a record's role within the staff role set.
func (s *StaffService) ChangeRole(ctx context.Context, id int64, newRole domain.StaffRole, actor events.Actor) (*domain.StaffRecord, error) {
	if !domain.ValidStaffRole(newRole) {
		return nil, errorutil.NewValidationError("invalid role", map[string]any{"role": newRole})
	}
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	oldRole := rec.Role
	if oldRole == newRole {
		return rec, nil
	}
	rec.Role = newRole
	if err := s.staff.Update(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffRoleChanged,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffRoleChangedPayload{
			StaffID: rec.ID,
			OldRole: oldRole,
			NewRole: newRole,
		},
	})
	return rec, nil
}

// RecordExit marks a record as having left the roster and revokes its login.
func (s *StaffService) RecordExit(ctx context.Context, id int64, exitDate time.Time, mode domain.ExitMode, actor events.Actor) (*domain.StaffRecord, error) {
	switch mode {
	case domain.ExitModeRetired, domain.ExitModePostedOut, domain.ExitModeDeceased, domain.ExitModeDismissed:
	default:
		return nil, errorutil.NewValidationError("invalid exit mode", map[string]any{"exit_mode": mode})
	}
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.ExitMode != nil {
		return nil, errorutil.NewConflict("record already exited", map[string]any{"nis_no": rec.NISNo})
	}
	rec.ExitDate = &exitDate
	rec.ExitMode = &mode
	rec.AllowLogin = false
	if err := s.staff.Update(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffUpdated,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffChangedPayload{
			StaffID: rec.ID,
			NISNo:   rec.NISNo,
			Fields:  []string{"exit_date", "exit_mode", "allow_login"},
		},
	})
	return rec, nil
}

// RaiseOutRequest records a staff member's own request to leave the roster.
func (s *StaffService) RaiseOutRequest(ctx context.Context, id int64, reason string, actor events.Actor) (*domain.StaffRecord, error) {
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.Active() {
		return nil, errorutil.NewConflict("record already exited", map[string]any{"nis_no": rec.NISNo})
	}
	if rec.OutRequestStatus != nil && *rec.OutRequestStatus == "Pending" {
		return nil, errorutil.NewConflict("out request already pending", map[string]any{"nis_no": rec.NISNo})
	}
	status := "Pending"
	now := time.Now()
	rec.OutRequestStatus = &status
	rec.OutRequestDate = &now
	rec.OutRequestReason = &reason
	if err := s.staff.Update(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffUpdated,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffChangedPayload{
			StaffID: rec.ID,
			NISNo:   rec.NISNo,
			Fields:  []string{"out_request_status", "out_request_date", "out_request_reason"},
		},
	})
	return rec, nil
}

// ResolveOutRequest settles a pending out request. Approval records the exit
// immediately with the given mode.
func (s *StaffService) ResolveOutRequest(ctx context.Context, id int64, approve bool, mode domain.ExitMode, actor events.Actor) (*domain.StaffRecord, error) {
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.OutRequestStatus == nil || *rec.OutRequestStatus != "Pending" {
		return nil, errorutil.NewConflict("no pending out request", map[string]any{"nis_no": rec.NISNo})
	}
	if !approve {
		status := "Rejected"
		rec.OutRequestStatus = &status
		if err := s.staff.Update(ctx, rec); err != nil {
			return nil, errorutil.MapError(err)
		}
		return rec, nil
	}
	status := "Approved"
	rec.OutRequestStatus = &status
	if err := s.staff.Update(ctx, rec); err != nil {
		return nil, errorutil.MapError(err)
	}
	return s.RecordExit(ctx, id, time.Now(), mode, actor)
}

// DeleteStaff removes a record outright.
func (s *StaffService) DeleteStaff(ctx context.Context, id int64, actor events.Actor) error {
	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		return errorutil.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventStaffDeleted,
		Target: rec.NISNo,
		Actor:  actor,
		Payload: events.StaffChangedPayload{
			StaffID: rec.ID,
			NISNo:   rec.NISNo,
		},
	})
	return nil
}

func (s *StaffService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func changedFields(changes domain.ChangeSet) []string {
	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, string(field))
	}
	return fields
}

// AdminActor builds the event actor for an administrative account.
func AdminActor(account *domain.AdminAccount) events.Actor {
	return events.Actor{
		Type:     domain.SubjectTypeAdmin,
		Username: account.Username,
		AdminID:  &account.ID,
	}
}

// StaffActor builds the event actor for a staff login.
func StaffActor(rec *domain.StaffRecord) events.Actor {
	return events.Actor{
		Type:     domain.SubjectTypeStaff,
		Username: rec.NISNo,
		StaffID:  &rec.ID,
	}
}

// SystemActor identifies unattended jobs in events and audit entries.
func SystemActor(name string) events.Actor {
	return events.Actor{
		Type:     domain.SubjectTypeAdmin,
		Username: name,
	}
}
