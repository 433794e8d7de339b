package pg

import (
	"context"

	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
)

const threadColumns = `t.id, t.index_id, t.forum_id, t.title, t.description, t.owner_id, t.watchers, t.created_at, t.edited_at`

func scanThread(row scanner, extra ...any) (domain.Thread, error) {
	var t domain.Thread
	dest := append([]any{&t.Id, &t.IndexId, &t.ForumId, &t.Title, &t.Description, &t.OwnerId, &t.Watchers, &t.CreatedAt, &t.EditedAt}, extra...)
	err := row.Scan(dest...)
	return t, err
}

func (s *Storage) CreateThread(ctx context.Context, t domain.Thread) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO threads (id, index_id, forum_id, title, description, owner_id, watchers, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, t.Id, t.IndexId, t.ForumId, t.Title, t.Description, t.OwnerId, t.Watchers, t.CreatedAt)
	if isForeignKeyViolation(err) {
		return internal_errors.NotFound("Forum not found")
	}
	if err != nil {
		return storeErr("failed to insert thread", err)
	}
	return nil
}

func (s *Storage) GetThread(ctx context.Context, id domain.ContentId) (domain.Thread, error) {
	t, err := scanThread(s.db.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM threads t WHERE t.id = $1`, id))
	if err != nil {
		return domain.Thread{}, notFound(err, "Thread not found", "failed to fetch thread")
	}
	return t, nil
}

func (s *Storage) UpdateThread(ctx context.Context, t domain.Thread) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE threads SET title = $2, description = $3, edited_at = $4 WHERE id = $1
    `, t.Id, t.Title, t.Description, t.EditedAt)
	return affected(res, err, "Thread not found", "failed to update thread")
}

func (s *Storage) UpdateThreadWatchers(ctx context.Context, id domain.ContentId, watchers domain.UserSet) error {
	res, err := s.db.ExecContext(ctx, `UPDATE threads SET watchers = $2 WHERE id = $1`, id, watchers)
	return affected(res, err, "Thread not found", "failed to update watchers")
}

// ListThreads returns the threads of a forum with post and watcher counts, oldest first.
func (s *Storage) ListThreads(ctx context.Context, forumId domain.ContentId) ([]domain.ThreadSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+threadColumns+`,
            (SELECT COUNT(*) FROM posts p WHERE p.thread_id = t.id),
            cardinality(t.watchers)
        FROM threads t
        WHERE t.forum_id = $1
        ORDER BY t.created_at, t.id
    `, forumId)
	if err != nil {
		return nil, storeErr("failed to list threads", err)
	}
	defer rows.Close()

	out := []domain.ThreadSummary{}
	for rows.Next() {
		var summary domain.ThreadSummary
		summary.Thread, err = scanThread(rows, &summary.PostCount, &summary.WatcherCount)
		if err != nil {
			return nil, storeErr("failed to scan thread", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows iteration error", err)
	}
	return out, nil
}
