package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
)

// FormationRepository manages formation tree persistence.
type FormationRepository interface {
	Create(ctx context.Context, formation *domain.Formation) error
	Update(ctx context.Context, formation *domain.Formation) error
	GetByID(ctx context.Context, id int64) (*domain.Formation, error)
	// GetHeadquarters returns the single Service Headquarters node, used as
	// the implicit root for auto-parenting.
	GetHeadquarters(ctx context.Context) (*domain.Formation, error)
	GetChildByName(ctx context.Context, parentID int64, name string) (*domain.Formation, error)
	ListChildren(ctx context.Context, parentID int64) ([]domain.Formation, error)
	List(ctx context.Context) ([]domain.Formation, error)
}

type formationRepository struct {
	pool *pgxpool.Pool
}

// NewFormationRepository builds the repository.
func NewFormationRepository(pool *pgxpool.Pool) FormationRepository {
	return &formationRepository{pool: pool}
}

func (r *formationRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

const formationColumns = `id, name, code, formation_type, parent_id, created_at, updated_at`

func (r *formationRepository) Create(ctx context.Context, formation *domain.Formation) error {
	const query = `
        INSERT INTO formations (name, code, formation_type, parent_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		formation.Name,
		formation.Code,
		formation.Type,
		formation.ParentID,
	).Scan(&formation.ID, &formation.CreatedAt, &formation.UpdatedAt)
}

func (r *formationRepository) Update(ctx context.Context, formation *domain.Formation) error {
	const query = `
        UPDATE formations SET name=$1, code=$2, formation_type=$3, parent_id=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q(ctx).Exec(ctx, query,
		formation.Name,
		formation.Code,
		formation.Type,
		formation.ParentID,
		formation.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *formationRepository) GetByID(ctx context.Context, id int64) (*domain.Formation, error) {
	query := `SELECT ` + formationColumns + ` FROM formations WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *formationRepository) GetHeadquarters(ctx context.Context) (*domain.Formation, error) {
	query := `SELECT ` + formationColumns + ` FROM formations WHERE formation_type=$1 LIMIT 1`
	return r.fetchSingle(ctx, query, domain.FormationTypeServiceHQ)
}

func (r *formationRepository) GetChildByName(ctx context.Context, parentID int64, name string) (*domain.Formation, error) {
	query := `SELECT ` + formationColumns + ` FROM formations WHERE parent_id=$1 AND LOWER(name)=LOWER($2)`
	var formation domain.Formation
	if err := r.q(ctx).QueryRow(ctx, query, parentID, name).Scan(
		&formation.ID,
		&formation.Name,
		&formation.Code,
		&formation.Type,
		&formation.ParentID,
		&formation.CreatedAt,
		&formation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &formation, nil
}

func (r *formationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Formation, error) {
	var formation domain.Formation
	if err := r.q(ctx).QueryRow(ctx, query, arg).Scan(
		&formation.ID,
		&formation.Name,
		&formation.Code,
		&formation.Type,
		&formation.ParentID,
		&formation.CreatedAt,
		&formation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &formation, nil
}

func (r *formationRepository) ListChildren(ctx context.Context, parentID int64) ([]domain.Formation, error) {
	query := `SELECT ` + formationColumns + ` FROM formations WHERE parent_id=$1 ORDER BY name`
	rows, err := r.q(ctx).Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFormations(rows)
}

func (r *formationRepository) List(ctx context.Context) ([]domain.Formation, error) {
	query := `SELECT ` + formationColumns + ` FROM formations ORDER BY name`
	rows, err := r.q(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFormations(rows)
}

func scanFormations(rows pgx.Rows) ([]domain.Formation, error) {
	var result []domain.Formation
	for rows.Next() {
		var formation domain.Formation
		if err := rows.Scan(
			&formation.ID,
			&formation.Name,
			&formation.Code,
			&formation.Type,
			&formation.ParentID,
			&formation.CreatedAt,
			&formation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, formation)
	}
	return result, rows.Err()
}
