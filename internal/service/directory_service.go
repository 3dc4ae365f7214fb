package service

import (
	"context"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// DirectoryService serves the static state and LGA reference data backing
// the origin fields on staff records.
type DirectoryService struct {
	states repository.StateRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(states repository.StateRepository) *DirectoryService {
	return &DirectoryService{states: states}
}

// ListStates returns every state, alphabetically.
func (s *DirectoryService) ListStates(ctx context.Context) ([]domain.State, error) {
	list, err := s.states.ListStates(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}

// ListLGAs returns the local government areas of one state.
func (s *DirectoryService) ListLGAs(ctx context.Context, stateID int64) ([]domain.LGA, error) {
	list, err := s.states.ListLGAs(ctx, stateID)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}
