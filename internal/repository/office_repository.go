package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
)

// OfficeRepository manages posting-location persistence.
type OfficeRepository interface {
	Create(ctx context.Context, office *domain.Office) error
	Update(ctx context.Context, office *domain.Office) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
	// GetByNameInFormation matches case-insensitively within one formation
	// scope; a nil formationID addresses unscoped offices.
	GetByNameInFormation(ctx context.Context, name string, formationID *int64) (*domain.Office, error)
	List(ctx context.Context, formationID *int64) ([]domain.Office, error)
}

type officeRepository struct {
	pool *pgxpool.Pool
}

// NewOfficeRepository builds the repository.
func NewOfficeRepository(pool *pgxpool.Pool) OfficeRepository {
	return &officeRepository{pool: pool}
}

func (r *officeRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

const officeColumns = `id, name, formation_id, office_type, parent_id, created_at, updated_at`

func (r *officeRepository) Create(ctx context.Context, office *domain.Office) error {
	const query = `
        INSERT INTO offices (name, formation_id, office_type, parent_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		office.Name,
		office.FormationID,
		office.Type,
		office.ParentID,
	).Scan(&office.ID, &office.CreatedAt, &office.UpdatedAt)
}

func (r *officeRepository) Update(ctx context.Context, office *domain.Office) error {
	const query = `
        UPDATE offices SET name=$1, formation_id=$2, office_type=$3, parent_id=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q(ctx).Exec(ctx, query,
		office.Name,
		office.FormationID,
		office.Type,
		office.ParentID,
		office.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *officeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q(ctx).Exec(ctx, `DELETE FROM offices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *officeRepository) GetByID(ctx context.Context, id int64) (*domain.Office, error) {
	query := `SELECT ` + officeColumns + ` FROM offices WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *officeRepository) GetByNameInFormation(ctx context.Context, name string, formationID *int64) (*domain.Office, error) {
	query := `SELECT ` + officeColumns + ` FROM offices WHERE LOWER(name)=LOWER($1)`
	args := []any{strings.TrimSpace(name)}
	if formationID != nil {
		args = append(args, *formationID)
		query += fmt.Sprintf(" AND formation_id=$%d", len(args))
	} else {
		query += " AND formation_id IS NULL"
	}
	return r.fetchSingle(ctx, query, args...)
}

func (r *officeRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Office, error) {
	var office domain.Office
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(
		&office.ID,
		&office.Name,
		&office.FormationID,
		&office.Type,
		&office.ParentID,
		&office.CreatedAt,
		&office.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *officeRepository) List(ctx context.Context, formationID *int64) ([]domain.Office, error) {
	query := `SELECT ` + officeColumns + ` FROM offices`
	args := []any{}
	if formationID != nil {
		args = append(args, *formationID)
		query += " WHERE formation_id=$1"
	}
	query += " ORDER BY name"
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Office
	for rows.Next() {
		var office domain.Office
		if err := rows.Scan(
			&office.ID,
			&office.Name,
			&office.FormationID,
			&office.Type,
			&office.ParentID,
			&office.CreatedAt,
			&office.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, office)
	}
	return result, rows.Err()
}
