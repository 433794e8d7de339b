package pg

import (
	"context"
	"fmt"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/lib/pq"
)

// ChildRefs lists the direct children of an entity, oldest first.
func (s *Storage) ChildRefs(ctx context.Context, kind domain.Kind, id domain.ContentId) ([]domain.ContentRef, error) {
	var query string
	var childKind domain.Kind
	switch kind {
	case domain.KindForum:
		query, childKind = `SELECT id, index_id FROM threads WHERE forum_id = $1 ORDER BY created_at, id`, domain.KindThread
	case domain.KindThread:
		query, childKind = `SELECT id, index_id FROM posts WHERE thread_id = $1 ORDER BY created_at, id`, domain.KindPost
	case domain.KindPost:
		query, childKind = `SELECT id, index_id FROM comments WHERE post_id = $1 ORDER BY created_at, id`, domain.KindComment
	default:
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, storeErr("failed to list children", err)
	}
	defer rows.Close()

	var refs []domain.ContentRef
	for rows.Next() {
		ref := domain.ContentRef{Kind: childKind}
		if err := rows.Scan(&ref.Id, &ref.IndexId); err != nil {
			return nil, storeErr("failed to scan child", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows iteration error", err)
	}
	return refs, nil
}

// DeleteContent removes a single row. Rows still referencing it are removed
// by the foreign keys.
func (s *Storage) DeleteContent(ctx context.Context, kind domain.Kind, id domain.ContentId) error {
	tbl, err := table(kind)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pq.QuoteIdentifier(tbl)), id)
	return affected(res, err, missing(kind), "failed to delete "+string(kind))
}

// ListContentSources returns every entity with the text its mirror is built from.
func (s *Storage) ListContentSources(ctx context.Context) ([]domain.ContentSource, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT 'forum', id, index_id, title, description, '', created_at FROM forums
        UNION ALL
        SELECT 'thread', id, index_id, title, description, '', created_at FROM threads
        UNION ALL
        SELECT 'post', id, index_id, '', '', content, created_at FROM posts
        UNION ALL
        SELECT 'comment', id, index_id, '', '', content, created_at FROM comments
    `)
	if err != nil {
		return nil, storeErr("failed to list content", err)
	}
	defer rows.Close()

	var out []domain.ContentSource
	for rows.Next() {
		var src domain.ContentSource
		var kind, title, description, content string
		if err := rows.Scan(&kind, &src.Ref.Id, &src.Ref.IndexId, &title, &description, &content, &src.CreatedAt); err != nil {
			return nil, storeErr("failed to scan content", err)
		}
		src.Ref.Kind = domain.Kind(kind)
		if src.Ref.Kind.Reactable() {
			src.Text = content
		} else {
			src.Text = domain.EmbeddingText(title, description)
		}
		out = append(out, src)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows iteration error", err)
	}
	return out, nil
}
