package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
)

// AdminAccountRepository manages the administrative account directory.
type AdminAccountRepository interface {
	Create(ctx context.Context, account *domain.AdminAccount) error
	GetByID(ctx context.Context, id int64) (*domain.AdminAccount, error)
	GetByUsername(ctx context.Context, username string) (*domain.AdminAccount, error)
	ListByRole(ctx context.Context, role domain.AdminRole) ([]domain.AdminAccount, error)
	// ListFormationAdmins returns formation-scoped admin accounts for one
	// formation.
	ListFormationAdmins(ctx context.Context, formationID int64) ([]domain.AdminAccount, error)
}

type adminAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAdminAccountRepository instantiates the repository.
func NewAdminAccountRepository(pool *pgxpool.Pool) AdminAccountRepository {
	return &adminAccountRepository{pool: pool}
}

func (r *adminAccountRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

const adminColumns = `id, username, password_hash, role, formation_id, created_at`

func (r *adminAccountRepository) Create(ctx context.Context, account *domain.AdminAccount) error {
	const query = `
        INSERT INTO admin_accounts (username, password_hash, role, formation_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.q(ctx).QueryRow(ctx, query,
		account.Username,
		account.PasswordHash,
		account.Role,
		account.FormationID,
	).Scan(&account.ID, &account.CreatedAt)
}

func (r *adminAccountRepository) GetByID(ctx context.Context, id int64) (*domain.AdminAccount, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *adminAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_accounts WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *adminAccountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AdminAccount, error) {
	var account domain.AdminAccount
	if err := r.q(ctx).QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.FormationID,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *adminAccountRepository) ListByRole(ctx context.Context, role domain.AdminRole) ([]domain.AdminAccount, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_accounts WHERE role=$1`
	rows, err := r.q(ctx).Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdminAccounts(rows)
}

func (r *adminAccountRepository) ListFormationAdmins(ctx context.Context, formationID int64) ([]domain.AdminAccount, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_accounts WHERE role=$1 AND formation_id=$2`
	rows, err := r.q(ctx).Query(ctx, query, domain.AdminRoleFormation, formationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdminAccounts(rows)
}

func scanAdminAccounts(rows pgx.Rows) ([]domain.AdminAccount, error) {
	var result []domain.AdminAccount
	for rows.Next() {
		var account domain.AdminAccount
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.PasswordHash,
			&account.Role,
			&account.FormationID,
			&account.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}
