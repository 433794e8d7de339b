package pg

import (
	"context"

	"github.com/campusnet/campusnet/shared/domain"
)

func (s *Storage) CreateForum(ctx context.Context, f domain.Forum) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO forums (id, index_id, title, description, owner_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, f.Id, f.IndexId, f.Title, f.Description, f.OwnerId, f.CreatedAt)
	if err != nil {
		return storeErr("failed to insert forum", err)
	}
	return nil
}

func (s *Storage) GetForum(ctx context.Context, id domain.ContentId) (domain.Forum, error) {
	var f domain.Forum
	err := s.db.QueryRowContext(ctx, `
        SELECT id, index_id, title, description, owner_id, created_at, edited_at
        FROM forums
        WHERE id = $1
    `, id).Scan(&f.Id, &f.IndexId, &f.Title, &f.Description, &f.OwnerId, &f.CreatedAt, &f.EditedAt)
	if err != nil {
		return domain.Forum{}, notFound(err, "Forum not found", "failed to fetch forum")
	}
	return f, nil
}

func (s *Storage) UpdateForum(ctx context.Context, f domain.Forum) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE forums SET title = $2, description = $3, edited_at = $4 WHERE id = $1
    `, f.Id, f.Title, f.Description, f.EditedAt)
	return affected(res, err, "Forum not found", "failed to update forum")
}

// ListForums returns every forum with its thread count, oldest first.
func (s *Storage) ListForums(ctx context.Context) ([]domain.ForumSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT
            f.id, f.index_id, f.title, f.description, f.owner_id, f.created_at, f.edited_at,
            (SELECT COUNT(*) FROM threads t WHERE t.forum_id = f.id)
        FROM forums f
        ORDER BY f.created_at, f.id
    `)
	if err != nil {
		return nil, storeErr("failed to list forums", err)
	}
	defer rows.Close()

	out := []domain.ForumSummary{}
	for rows.Next() {
		var f domain.ForumSummary
		if err := rows.Scan(&f.Id, &f.IndexId, &f.Title, &f.Description, &f.OwnerId, &f.CreatedAt, &f.EditedAt, &f.ThreadCount); err != nil {
			return nil, storeErr("failed to scan forum", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows iteration error", err)
	}
	return out, nil
}
