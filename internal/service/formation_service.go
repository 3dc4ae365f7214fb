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

// FormationService manages the formation tree and scope resolution.
type FormationService struct {
	formations repository.FormationRepository
	dispatcher events.Dispatcher
}

// FormationDependencies bundles collaborators for the formation service.
type FormationDependencies struct {
	FormationRepo repository.FormationRepository
	Dispatcher    events.Dispatcher
}

// NewFormationService constructs the service.
func NewFormationService(deps FormationDependencies) *FormationService {
	return &FormationService{
		formations: deps.FormationRepo,
		dispatcher: deps.Dispatcher,
	}
}

// FormationCreateInput describes a new formation node.
type FormationCreateInput struct {
	Name     string
	Code     *string
	Type     domain.FormationType
	ParentID *int64
}

var formationTypes = map[domain.FormationType]struct{}{
	domain.FormationTypeServiceHQ:    {},
	domain.FormationTypeZonalCommand: {},
	domain.FormationTypeDirectorate:  {},
	domain.FormationTypeStateCommand: {},
	domain.FormationTypeZonalHQ:      {},
}

// CreateFormation adds a node to the tree. Directorates with no explicit
// parent attach under Service Headquarters; creating a Zonal Command also
// provisions its headquarters child.
func (s *FormationService) CreateFormation(ctx context.Context, input FormationCreateInput, actor events.Actor) (*domain.Formation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errorutil.NewValidationError("formation name is required", nil)
	}
	if _, ok := formationTypes[input.Type]; !ok {
		return nil, errorutil.NewValidationError("unknown formation type", map[string]any{"formation_type": input.Type})
	}

	parentID := input.ParentID
	switch input.Type {
	case domain.FormationTypeServiceHQ:
		if existing, err := s.formations.GetHeadquarters(ctx); err == nil && existing != nil {
			return nil, errorutil.NewConflict("service headquarters already exists", map[string]any{"id": existing.ID})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.MapError(err)
		}
	case domain.FormationTypeDirectorate:
		if parentID == nil {
			hq, err := s.formations.GetHeadquarters(ctx)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, errorutil.NewValidationError("no service headquarters to attach directorate to", nil)
				}
				return nil, errorutil.MapError(err)
			}
			parentID = &hq.ID
		}
	}
	if parentID != nil {
		if _, err := s.formations.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewNotFound("parent formation", map[string]any{"parent_id": *parentID})
			}
			return nil, errorutil.MapError(err)
		}
	}

	formation := &domain.Formation{
		Name:     name,
		Code:     input.Code,
		Type:     input.Type,
		ParentID: parentID,
	}
	if err := s.formations.Create(ctx, formation); err != nil {
		return nil, errorutil.MapError(err)
	}

	if formation.Type == domain.FormationTypeZonalCommand {
		if _, err := s.ensureZonalHeadquarters(ctx, formation); err != nil {
			return nil, err
		}
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventFormationCreated,
		Target:  formation.Name,
		Actor:   actor,
		Payload: formation,
	})
	return formation, nil
}

// ensureZonalHeadquarters provisions the "<zone> Headquarters" child of a
// Zonal Command. Reinvocation finds the existing child and stops.
func (s *FormationService) ensureZonalHeadquarters(ctx context.Context, zone *domain.Formation) (*domain.Formation, error) {
	name := zone.Name + " Headquarters"
	existing, err := s.formations.GetChildByName(ctx, zone.ID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}
	child := &domain.Formation{
		Name:     name,
		Type:     domain.FormationTypeZonalHQ,
		ParentID: &zone.ID,
	}
	if err := s.formations.Create(ctx, child); err != nil {
		return nil, errorutil.MapError(err)
	}
	return child, nil
}

// UpdateFormation renames or reattaches a node.
func (s *FormationService) UpdateFormation(ctx context.Context, id int64, name string, code *string, parentID *int64) (*domain.Formation, error) {
	formation, err := s.GetFormation(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errorutil.NewValidationError("formation name is required", nil)
	}
	if parentID != nil {
		if *parentID == id {
			return nil, errorutil.NewValidationError("formation cannot parent itself", nil)
		}
		if _, err := s.formations.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewNotFound("parent formation", map[string]any{"parent_id": *parentID})
			}
			return nil, errorutil.MapError(err)
		}
		formation.ParentID = parentID
	}
	formation.Name = name
	formation.Code = code
	if err := s.formations.Update(ctx, formation); err != nil {
		return nil, errorutil.MapError(err)
	}
	return formation, nil
}

// GetFormation fetches a node by id.
func (s *FormationService) GetFormation(ctx context.Context, id int64) (*domain.Formation, error) {
	formation, err := s.formations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("formation", map[string]any{"id": id})
		}
		return nil, errorutil.MapError(err)
	}
	return formation, nil
}

// ListFormations returns every node.
func (s *FormationService) ListFormations(ctx context.Context) ([]domain.Formation, error) {
	list, err := s.formations.List(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}

// ResolveScope expands a formation into the set of formation ids it covers.
// Service Headquarters, Zonal Commands and Directorates cover their whole
// subtree; every other type covers the node alone. Traversal tracks visited
// ids, so a corrupt parent cycle cannot loop.
func (s *FormationService) ResolveScope(ctx context.Context, rootID int64) ([]int64, error) {
	root, err := s.GetFormation(ctx, rootID)
	if err != nil {
		return nil, err
	}
	ids := []int64{root.ID}
	if !root.Type.Aggregating() {
		return ids, nil
	}

	visited := map[int64]struct{}{root.ID: {}}
	queue := []int64{root.ID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := s.formations.ListChildren(ctx, current)
		if err != nil {
			return nil, errorutil.MapError(err)
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			ids = append(ids, child.ID)
			queue = append(queue, child.ID)
		}
	}
	return ids, nil
}
