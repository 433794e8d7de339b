package pg

import (
	"context"
	"math"

	"github.com/campusnet/campusnet/shared/domain"
)

func (s *Storage) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO notifications (id, created_by, thread_id, post_id, message, recipients, seen_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, n.Id, n.CreatedBy, n.ThreadId, n.PostId, n.Message, n.Recipients, n.SeenBy, n.CreatedAt)
	if err != nil {
		return storeErr("failed to insert notification", err)
	}
	return nil
}

func (s *Storage) GetNotification(ctx context.Context, id domain.ContentId) (domain.Notification, error) {
	var n domain.Notification
	err := s.db.QueryRowContext(ctx, `
        SELECT id, created_by, thread_id, post_id, message, recipients, seen_by, created_at
        FROM notifications
        WHERE id = $1
    `, id).Scan(&n.Id, &n.CreatedBy, &n.ThreadId, &n.PostId, &n.Message, &n.Recipients, &n.SeenBy, &n.CreatedAt)
	if err != nil {
		return domain.Notification{}, notFound(err, "Notification not found", "failed to fetch notification")
	}
	return n, nil
}

func (s *Storage) UpdateNotificationSeenBy(ctx context.Context, id domain.ContentId, seenBy domain.UserSet) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET seen_by = $2 WHERE id = $1`, id, seenBy)
	return affected(res, err, "Notification not found", "failed to update notification")
}

// ListNotifications returns notifications addressed to user, newest first.
func (s *Storage) ListNotifications(ctx context.Context, user domain.UserId, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, created_by, thread_id, post_id, message, recipients, seen_by, created_at
        FROM notifications
        WHERE recipients @> ARRAY[$1::BIGINT]
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `, user, limit)
	if err != nil {
		return nil, storeErr("failed to list notifications", err)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.Id, &n.CreatedBy, &n.ThreadId, &n.PostId, &n.Message, &n.Recipients, &n.SeenBy, &n.CreatedAt); err != nil {
			return nil, storeErr("failed to scan notification", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows iteration error", err)
	}
	return out, nil
}
