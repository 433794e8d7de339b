package pg

import (
	"context"

	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
)

const postColumns = `
    p.id, p.index_id, p.thread_id, p.content, p.owner_id,
    p.liked_by, p.disliked_by, p.reported_by,
    (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
    p.created_at, p.edited_at`

func scanPost(row scanner) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.Id, &p.IndexId, &p.ThreadId, &p.Content, &p.OwnerId,
		&p.LikedBy, &p.DisLikedBy, &p.ReportedBy,
		&p.CommentsCount, &p.CreatedAt, &p.EditedAt,
	)
	return p, err
}

func (s *Storage) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO posts (id, index_id, thread_id, content, owner_id, liked_by, disliked_by, reported_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, p.Id, p.IndexId, p.ThreadId, p.Content, p.OwnerId, p.LikedBy, p.DisLikedBy, p.ReportedBy, p.CreatedAt)
	if isForeignKeyViolation(err) {
		return internal_errors.NotFound("Thread not found")
	}
	if err != nil {
		return storeErr("failed to insert post", err)
	}
	return nil
}

func (s *Storage) GetPost(ctx context.Context, id domain.ContentId) (domain.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if err != nil {
		return domain.Post{}, notFound(err, "Post not found", "failed to fetch post")
	}
	return p, nil
}

func (s *Storage) UpdatePost(ctx context.Context, p domain.Post) error {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET content = $2, edited_at = $3 WHERE id = $1`, p.Id, p.Content, p.EditedAt)
	return affected(res, err, "Post not found", "failed to update post")
}

// ListPosts returns the posts of a thread, oldest first.
func (s *Storage) ListPosts(ctx context.Context, threadId domain.ContentId) ([]domain.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.thread_id = $1 ORDER BY p.created_at, p.id`, threadId)
}

// ListReportedPosts returns posts with at least one report, most reported first.
func (s *Storage) ListReportedPosts(ctx context.Context) ([]domain.Post, error) {
	return s.queryPosts(ctx, `
        SELECT `+postColumns+`
        FROM posts p
        WHERE cardinality(p.reported_by) > 0
        ORDER BY cardinality(p.reported_by) DESC, p.created_at, p.id
    `)
}

func (s *Storage) queryPosts(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to list posts", err)
	}
	defer rows.Close()

	out := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, storeErr("failed to scan post", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows iteration error", err)
	}
	return out, nil
}
