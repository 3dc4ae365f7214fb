package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
)

// EditRequestRepository persists proposed staff edits. A partial unique index
// on (staff_id) WHERE status='PENDING' backs the one-pending-per-record
// invariant at the storage layer.
type EditRequestRepository interface {
	Create(ctx context.Context, req *domain.EditRequest) error
	GetByID(ctx context.Context, id int64) (*domain.EditRequest, error)
	// GetPendingForUpdate locks the pending request row for the staff id, so
	// concurrent submissions serialize on it. pgx.ErrNoRows means none exists.
	GetPendingForUpdate(ctx context.Context, staffID int64) (*domain.EditRequest, error)
	// UpdateChanges rewrites a pending request's change-set and refreshes its
	// submission timestamp.
	UpdateChanges(ctx context.Context, req *domain.EditRequest) error
	// Resolve flips a request to its terminal status with resolver identity.
	Resolve(ctx context.Context, req *domain.EditRequest) error
	ListByStatus(ctx context.Context, status domain.EditRequestStatus, limit, offset int) ([]domain.EditRequest, error)
}

type editRequestRepository struct {
	pool *pgxpool.Pool
}

// NewEditRequestRepository instantiates the repository.
func NewEditRequestRepository(pool *pgxpool.Pool) EditRequestRepository {
	return &editRequestRepository{pool: pool}
}

func (r *editRequestRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

const editRequestColumns = `id, staff_id, changes, status, submitted_by, submitted_at, resolved_by, resolved_at`

func (r *editRequestRepository) Create(ctx context.Context, req *domain.EditRequest) error {
	payload, err := json.Marshal(req.Changes)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO edit_requests (staff_id, changes, status, submitted_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, submitted_at`
	return r.q(ctx).QueryRow(ctx, query,
		req.StaffID,
		payload,
		req.Status,
		req.SubmittedBy,
	).Scan(&req.ID, &req.SubmittedAt)
}

func (r *editRequestRepository) GetByID(ctx context.Context, id int64) (*domain.EditRequest, error) {
	query := `SELECT ` + editRequestColumns + ` FROM edit_requests WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *editRequestRepository) GetPendingForUpdate(ctx context.Context, staffID int64) (*domain.EditRequest, error) {
	query := `SELECT ` + editRequestColumns + `
        FROM edit_requests WHERE staff_id=$1 AND status=$2
        FOR UPDATE`
	var req domain.EditRequest
	var payload []byte
	if err := r.q(ctx).QueryRow(ctx, query, staffID, domain.EditRequestPending).Scan(
		&req.ID,
		&req.StaffID,
		&payload,
		&req.Status,
		&req.SubmittedBy,
		&req.SubmittedAt,
		&req.ResolvedBy,
		&req.ResolvedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &req.Changes); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *editRequestRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.EditRequest, error) {
	var req domain.EditRequest
	var payload []byte
	if err := r.q(ctx).QueryRow(ctx, query, arg).Scan(
		&req.ID,
		&req.StaffID,
		&payload,
		&req.Status,
		&req.SubmittedBy,
		&req.SubmittedAt,
		&req.ResolvedBy,
		&req.ResolvedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &req.Changes); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *editRequestRepository) UpdateChanges(ctx context.Context, req *domain.EditRequest) error {
	payload, err := json.Marshal(req.Changes)
	if err != nil {
		return err
	}
	const query = `
        UPDATE edit_requests SET changes=$1, submitted_by=$2, submitted_at=NOW()
        WHERE id=$3 AND status=$4
        RETURNING submitted_at`
	return r.q(ctx).QueryRow(ctx, query,
		payload,
		req.SubmittedBy,
		req.ID,
		domain.EditRequestPending,
	).Scan(&req.SubmittedAt)
}

func (r *editRequestRepository) Resolve(ctx context.Context, req *domain.EditRequest) error {
	const query = `
        UPDATE edit_requests SET status=$1, resolved_by=$2, resolved_at=$3
        WHERE id=$4 AND status=$5`
	cmd, err := r.q(ctx).Exec(ctx, query,
		req.Status,
		req.ResolvedBy,
		req.ResolvedAt,
		req.ID,
		domain.EditRequestPending,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *editRequestRepository) ListByStatus(ctx context.Context, status domain.EditRequestStatus, limit, offset int) ([]domain.EditRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + editRequestColumns + `
        FROM edit_requests WHERE status=$1
        ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q(ctx).Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EditRequest
	for rows.Next() {
		var req domain.EditRequest
		var payload []byte
		if err := rows.Scan(
			&req.ID,
			&req.StaffID,
			&payload,
			&req.Status,
			&req.SubmittedBy,
			&req.SubmittedAt,
			&req.ResolvedBy,
			&req.ResolvedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &req.Changes); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}
