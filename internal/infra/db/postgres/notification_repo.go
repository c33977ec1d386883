package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Append(ctx context.Context, n *domain.Notification) error {
	const q = `
INSERT INTO notifications
  (id, user_id, alert_id, message, type, priority, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.ExecContext(ctx, q,
		n.ID, n.UserID, string(n.AlertID), n.Message,
		stringOrDash(string(n.Type)), stringOrDash(string(n.Priority)), timeOrNow(n.CreatedAt),
	)
	return err
}

// ListByUser returns the most recent notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, user_id, alert_id, message, type, priority, created_at
FROM notifications
WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var (
			n       domain.Notification
			created time.Time
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.AlertID, &n.Message, &n.Type, &n.Priority, &created); err != nil {
			return nil, err
		}
		n.CreatedAt = created.UTC()
		out = append(out, &n)
	}
	return out, rows.Err()
}
