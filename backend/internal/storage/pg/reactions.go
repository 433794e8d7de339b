package pg

import (
	"context"
	"fmt"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/lib/pq"
)

func (s *Storage) GetReactions(ctx context.Context, kind domain.Kind, id domain.ContentId) (domain.ReactionTarget, error) {
	tbl, err := reactionTable(kind)
	if err != nil {
		return domain.ReactionTarget{}, err
	}

	target := domain.ReactionTarget{Kind: kind}
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
        SELECT id, owner_id, liked_by, disliked_by, reported_by FROM %s WHERE id = $1
    `, pq.QuoteIdentifier(tbl)), id).Scan(
		&target.Id, &target.OwnerId,
		&target.Reactions.LikedBy, &target.Reactions.DisLikedBy, &target.Reactions.ReportedBy,
	)
	if err != nil {
		return domain.ReactionTarget{}, notFound(err, missing(kind), "failed to fetch reactions")
	}
	return target, nil
}

// UpdateReactions overwrites the three moderation sets in one statement.
func (s *Storage) UpdateReactions(ctx context.Context, kind domain.Kind, id domain.ContentId, r domain.Reactions) error {
	tbl, err := reactionTable(kind)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
        UPDATE %s SET liked_by = $2, disliked_by = $3, reported_by = $4 WHERE id = $1
    `, pq.QuoteIdentifier(tbl)), id, r.LikedBy, r.DisLikedBy, r.ReportedBy)
	return affected(res, err, missing(kind), "failed to update reactions")
}
