package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
)

// NotificationRepository persists per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	ListForAdmin(ctx context.Context, adminID int64, limit, offset int) ([]domain.Notification, error)
	ListForStaff(ctx context.Context, staffID int64, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

const notificationColumns = `id, message, admin_id, staff_id, batch_id, is_read, created_at`

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	const query = `
        INSERT INTO notifications (message, admin_id, staff_id, batch_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, is_read, created_at`
	return r.q(ctx).QueryRow(ctx, query,
		notif.Message,
		notif.AdminID,
		notif.StaffID,
		notif.BatchID,
	).Scan(&notif.ID, &notif.Read, &notif.CreatedAt)
}

func (r *notificationRepository) ListForAdmin(ctx context.Context, adminID int64, limit, offset int) ([]domain.Notification, error) {
	return r.list(ctx, "admin_id", adminID, limit, offset)
}

func (r *notificationRepository) ListForStaff(ctx context.Context, staffID int64, limit, offset int) ([]domain.Notification, error) {
	return r.list(ctx, "staff_id", staffID, limit, offset)
}

func (r *notificationRepository) list(ctx context.Context, column string, recipientID int64, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + notificationColumns + `
        FROM notifications WHERE ` + column + `=$1
        ORDER BY is_read, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q(ctx).Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notif domain.Notification
		if err := rows.Scan(
			&notif.ID,
			&notif.Message,
			&notif.AdminID,
			&notif.StaffID,
			&notif.BatchID,
			&notif.Read,
			&notif.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notif)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64) error {
	cmd, err := r.q(ctx).Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
