package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// OfficeService manages posting locations.
type OfficeService struct {
	offices    repository.OfficeRepository
	formations repository.FormationRepository
	dispatcher events.Dispatcher
}

// OfficeDependencies bundles collaborators for the office service.
type OfficeDependencies struct {
	OfficeRepo    repository.OfficeRepository
	FormationRepo repository.FormationRepository
	Dispatcher    events.Dispatcher
}

// NewOfficeService constructs the service.
func NewOfficeService(deps OfficeDependencies) *OfficeService {
	return &OfficeService{
		offices:    deps.OfficeRepo,
		formations: deps.FormationRepo,
		dispatcher: deps.Dispatcher,
	}
}

// OfficeCreateInput describes a new posting location.
type OfficeCreateInput struct {
	Name        string
	FormationID *int64
	Type        *domain.OfficeType
	ParentID    *int64
}

// CreateOffice adds an office. Names are unique case-insensitively within a
// formation scope, and directorate offices may only live under a Directorate.
func (s *OfficeService) CreateOffice(ctx context.Context, input OfficeCreateInput, actor events.Actor) (*domain.Office, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errorutil.NewValidationError("office name is required", nil)
	}
	if err := s.checkType(ctx, input.Type, input.FormationID); err != nil {
		return nil, err
	}
	if input.FormationID != nil {
		if _, err := s.formations.GetByID(ctx, *input.FormationID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewNotFound("formation", map[string]any{"formation_id": *input.FormationID})
			}
			return nil, errorutil.MapError(err)
		}
	}
	if existing, err := s.offices.GetByNameInFormation(ctx, name, input.FormationID); err == nil && existing != nil {
		return nil, errorutil.NewConflict("office name already in use", map[string]any{"name": name})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}

	office := &domain.Office{
		Name:        name,
		FormationID: input.FormationID,
		Type:        input.Type,
		ParentID:    input.ParentID,
	}
	if err := s.offices.Create(ctx, office); err != nil {
		return nil, errorutil.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventOfficeCreated,
		Target:  office.Name,
		Actor:   actor,
		Payload: office,
	})
	return office, nil
}

// UpdateOffice renames an office, keeping name uniqueness within its scope.
func (s *OfficeService) UpdateOffice(ctx context.Context, id int64, name string, officeType *domain.OfficeType) (*domain.Office, error) {
	office, err := s.GetOffice(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errorutil.NewValidationError("office name is required", nil)
	}
	if err := s.checkType(ctx, officeType, office.FormationID); err != nil {
		return nil, err
	}
	if !strings.EqualFold(name, office.Name) {
		if existing, err := s.offices.GetByNameInFormation(ctx, name, office.FormationID); err == nil && existing != nil && existing.ID != id {
			return nil, errorutil.NewConflict("office name already in use", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.MapError(err)
		}
	}
	office.Name = name
	office.Type = officeType
	if err := s.offices.Update(ctx, office); err != nil {
		return nil, errorutil.MapError(err)
	}
	return office, nil
}

// DeleteOffice removes an office.
func (s *OfficeService) DeleteOffice(ctx context.Context, id int64) error {
	if err := s.offices.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("office", map[string]any{"id": id})
		}
		return errorutil.MapError(err)
	}
	return nil
}

// GetOffice fetches an office by id.
func (s *OfficeService) GetOffice(ctx context.Context, id int64) (*domain.Office, error) {
	office, err := s.offices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("office", map[string]any{"id": id})
		}
		return nil, errorutil.MapError(err)
	}
	return office, nil
}

// ListOffices returns offices, optionally restricted to one formation.
func (s *OfficeService) ListOffices(ctx context.Context, formationID *int64) ([]domain.Office, error) {
	list, err := s.offices.List(ctx, formationID)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}

func (s *OfficeService) checkType(ctx context.Context, officeType *domain.OfficeType, formationID *int64) error {
	if officeType == nil {
		return nil
	}
	switch *officeType {
	case domain.OfficeTypeSection, domain.OfficeTypeUnit:
		return nil
	case domain.OfficeTypeDirectorateOffice:
		if formationID == nil {
			return errorutil.NewValidationError("directorate office requires a formation", nil)
		}
		formation, err := s.formations.GetByID(ctx, *formationID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errorutil.NewNotFound("formation", map[string]any{"formation_id": *formationID})
			}
			return errorutil.MapError(err)
		}
		if formation.Type != domain.FormationTypeDirectorate {
			return errorutil.NewValidationError("directorate office must belong to a directorate", map[string]any{"formation_type": formation.Type})
		}
		return nil
	default:
		return errorutil.NewValidationError("unknown office type", map[string]any{"office_type": *officeType})
	}
}
