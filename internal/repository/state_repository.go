package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
)

// StateRepository reads the state/LGA directory.
type StateRepository interface {
	ListStates(ctx context.Context) ([]domain.State, error)
	ListLGAs(ctx context.Context, stateID int64) ([]domain.LGA, error)
}

type stateRepository struct {
	pool *pgxpool.Pool
}

// NewStateRepository instantiates the repository.
func NewStateRepository(pool *pgxpool.Pool) StateRepository {
	return &stateRepository{pool: pool}
}

func (r *stateRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

func (r *stateRepository) ListStates(ctx context.Context) ([]domain.State, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT id, name FROM states ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.State
	for rows.Next() {
		var state domain.State
		if err := rows.Scan(&state.ID, &state.Name); err != nil {
			return nil, err
		}
		result = append(result, state)
	}
	return result, rows.Err()
}

func (r *stateRepository) ListLGAs(ctx context.Context, stateID int64) ([]domain.LGA, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT id, name, state_id FROM lgas WHERE state_id=$1 ORDER BY name`, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LGA
	for rows.Next() {
		var lga domain.LGA
		if err := rows.Scan(&lga.ID, &lga.Name, &lga.StateID); err != nil {
			return nil, err
		}
		result = append(result, lga)
	}
	return result, rows.Err()
}
