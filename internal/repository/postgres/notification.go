package postgres

import (
	"context"
	"database/sql"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, title, message, kind, link, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, false, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		n.UserID, n.Title, n.Message, n.Kind, n.Link, time.Now(),
	).Scan(&n.ID)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int32, limit int32) ([]domain.Notification, error) {
	query := `SELECT id, user_id, title, message, kind, link, is_read, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.Link, &n.IsRead, &n.CreatedOn); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int32) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID)
	return err
}
