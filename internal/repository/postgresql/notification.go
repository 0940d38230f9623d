package postgresql

import (
	"context"
	"fmt"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/notify"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
)

type NotificationRepo struct {
	db db.DB
}

func NewNotificationRepo(db db.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

var _ notify.Store = (*NotificationRepo)(nil)

// Create inserts n and fills in its id. An unknown user_id yields
// repository.ErrRecipientNotFound.
func (r *NotificationRepo) Create(ctx context.Context, n *repository.Notification) error {
	err := r.db.Get(ctx, &n.ID, `
        INSERT INTO notifications (
            user_id, type, title, message, link, read, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `, n.UserID, n.Type, n.Title, n.Message, n.Link, n.Read, n.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrRecipientNotFound, n.UserID)
		}
		return err
	}
	return nil
}

func (r *NotificationRepo) GetByUserID(ctx context.Context, userID string, limit int) ([]*repository.Notification, error) {
	query := `
        SELECT id, user_id, type, title, message, link, read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}

	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var notifications []*repository.Notification
	if err := r.db.Select(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}
