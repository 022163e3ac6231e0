package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushq/platform/internal/domain/entity"
	"github.com/campushq/platform/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(n *entity.Notification) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message, type, read, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, n.UserID, n.Title, n.Message, n.Type, n.Read, n.Metadata)

	return row.Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListByUser(userID string, unreadOnly bool) ([]entity.Notification, error) {
	ctx := context.Background()
	q := `
		SELECT id, user_id, title, message, type, read, metadata, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		q += ` AND read = false`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read,
			&n.Metadata, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(id string) error {
	res, err := r.pool.Exec(context.Background(),
		`UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(userID string) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	return err
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
