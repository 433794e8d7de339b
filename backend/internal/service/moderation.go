package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
)

type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
	ActionReport  Action = "report"
)

type ModerationService interface {
	Toggle(ctx context.Context, kind domain.Kind, id domain.ContentId, actor domain.User, action Action) (domain.ReactionTarget, error)
	ReportedPosts(ctx context.Context) ([]domain.Post, error)
	ReportedComments(ctx context.Context) ([]domain.Comment, error)
}

type ReactionStorage interface {
	GetReactions(ctx context.Context, kind domain.Kind, id domain.ContentId) (domain.ReactionTarget, error)
	// UpdateReactions overwrites all three moderation sets of one entity.
	UpdateReactions(ctx context.Context, kind domain.Kind, id domain.ContentId, reactions domain.Reactions) error
	// ListReported returns entities with at least one report, most reported first.
	ListReportedPosts(ctx context.Context) ([]domain.Post, error)
	ListReportedComments(ctx context.Context) ([]domain.Comment, error)
}

type Moderation struct {
	storage ReactionStorage
	timeout time.Duration
	log     *slog.Logger
}

func NewModeration(storage ReactionStorage, timeout time.Duration) *Moderation {
	return &Moderation{storage: storage, timeout: timeout, log: logger.Component("moderation")}
}

var _ ModerationService = (*Moderation)(nil)

// Toggle applies action for actor on a post or comment as a read-modify-write
// of that single document. Concurrent toggles are last write wins.
func (m *Moderation) Toggle(ctx context.Context, kind domain.Kind, id domain.ContentId, actor domain.User, action Action) (domain.ReactionTarget, error) {
	ctx, cancel := detach(ctx, m.timeout)
	defer cancel()

	if !kind.Reactable() {
		return domain.ReactionTarget{}, errors.InvalidOperation("Only posts and comments can be liked or reported")
	}

	target, err := m.storage.GetReactions(ctx, kind, id)
	if err != nil {
		return domain.ReactionTarget{}, err
	}

	reactions := target.Reactions.Clone()
	switch action {
	case ActionLike:
		reactions.ToggleLike(actor.Id)
	case ActionDislike:
		reactions.ToggleDislike(actor.Id)
	case ActionReport:
		if target.OwnerId == actor.Id {
			return domain.ReactionTarget{}, errors.InvalidOperation("You cannot report your own content")
		}
		reactions.ToggleReport(actor.Id)
	default:
		return domain.ReactionTarget{}, errors.InvalidOperation("Unknown moderation action")
	}

	if err := m.storage.UpdateReactions(ctx, kind, id, reactions); err != nil {
		m.log.Error("toggle failed", "operation", string(action), "kind", kind, "id", id, "actor", actor.Id, "error", err)
		return domain.ReactionTarget{}, err
	}

	m.log.Debug("toggled", "operation", string(action), "kind", kind, "id", id, "actor", actor.Id)
	target.Reactions = reactions
	return target, nil
}

func (m *Moderation) ReportedPosts(ctx context.Context) ([]domain.Post, error) {
	ctx, cancel := detach(ctx, m.timeout)
	defer cancel()
	return m.storage.ListReportedPosts(ctx)
}

func (m *Moderation) ReportedComments(ctx context.Context) ([]domain.Comment, error) {
	ctx, cancel := detach(ctx, m.timeout)
	defer cancel()
	return m.storage.ListReportedComments(ctx)
}
