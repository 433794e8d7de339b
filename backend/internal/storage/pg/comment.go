package pg

import (
	"context"

	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
)

const commentColumns = `
    c.id, c.index_id, c.post_id, c.content, c.owner_id,
    c.liked_by, c.disliked_by, c.reported_by,
    c.created_at, c.edited_at`

func scanComment(row scanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.Id, &c.IndexId, &c.PostId, &c.Content, &c.OwnerId,
		&c.LikedBy, &c.DisLikedBy, &c.ReportedBy,
		&c.CreatedAt, &c.EditedAt,
	)
	return c, err
}

func (s *Storage) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO comments (id, index_id, post_id, content, owner_id, liked_by, disliked_by, reported_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, c.Id, c.IndexId, c.PostId, c.Content, c.OwnerId, c.LikedBy, c.DisLikedBy, c.ReportedBy, c.CreatedAt)
	if isForeignKeyViolation(err) {
		return internal_errors.NotFound("Post not found")
	}
	if err != nil {
		return storeErr("failed to insert comment", err)
	}
	return nil
}

func (s *Storage) GetComment(ctx context.Context, id domain.ContentId) (domain.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.id = $1`, id))
	if err != nil {
		return domain.Comment{}, notFound(err, "Comment not found", "failed to fetch comment")
	}
	return c, nil
}

func (s *Storage) UpdateComment(ctx context.Context, c domain.Comment) error {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET content = $2, edited_at = $3 WHERE id = $1`, c.Id, c.Content, c.EditedAt)
	return affected(res, err, "Comment not found", "failed to update comment")
}

func (s *Storage) ListComments(ctx context.Context, postId domain.ContentId) ([]domain.Comment, error) {
	return s.queryComments(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.post_id = $1 ORDER BY c.created_at, c.id`, postId)
}

func (s *Storage) ListReportedComments(ctx context.Context) ([]domain.Comment, error) {
	return s.queryComments(ctx, `
        SELECT `+commentColumns+`
        FROM comments c
        WHERE cardinality(c.reported_by) > 0
        ORDER BY cardinality(c.reported_by) DESC, c.created_at, c.id
    `)
}

func (s *Storage) queryComments(ctx context.Context, query string, args ...any) ([]domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to list comments", err)
	}
	defer rows.Close()

	out := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, storeErr("failed to scan comment", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows iteration error", err)
	}
	return out, nil
}
