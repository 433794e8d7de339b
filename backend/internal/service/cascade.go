package service

import (
	"context"
	"slices"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/errors"
)

// Delete removes the entity and everything beneath it from both stores,
// deepest level first. For every entity the mirror is removed before the
// document. A failed mirror removal degrades the result, a failed document
// removal aborts the delete.
func (s *Content) Delete(ctx context.Context, ref domain.ContentRef, actor domain.User) (DeleteResult, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()

	var res DeleteResult

	target, err := lookup(ctx, s.storage, ref.Kind, ref.Id)
	if err != nil {
		return res, err
	}
	if ref.IndexId != "" && target.Ref().IndexId != ref.IndexId {
		return res, notFound(ref.Kind)
	}
	if ref.Kind == domain.KindForum && !actor.Admin {
		return res, errors.Forbidden("Only admins can delete forums")
	}
	if !actor.CanModify(target.Owner()) {
		return res, errors.Forbidden("You can only delete your own content")
	}

	order, err := s.deletionOrder(ctx, target.Ref())
	if err != nil {
		s.log.Error("descendant traversal failed", "operation", "delete", "ref", ref.String(), "actor", actor.Id, "error", err)
		return res, err
	}

	for _, r := range order {
		if err := s.mirror.Remove(ctx, r); err != nil {
			res.addMirrorFailure(err)
		}
		if err := s.storage.DeleteContent(ctx, r.Kind, r.Id); err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			s.log.Error("cascade delete aborted", "operation", "delete", "ref", r.String(), "actor", actor.Id,
				"deleted", res.Deleted, "error", err)
			return res, err
		}
		res.Deleted++
		cascadeDeleted.WithLabelValues(string(r.Kind)).Inc()
	}

	if res.Degraded() {
		s.log.Warn("delete left index records behind", "ref", ref.String(), "actor", actor.Id, "error", res.Mirror)
	}
	s.log.Info("content deleted", "ref", ref.String(), "actor", actor.Id, "deleted", res.Deleted, "degraded", res.Degraded())
	return res, nil
}

// deletionOrder lists root and its descendants level by level, deepest
// level first, root last.
func (s *Content) deletionOrder(ctx context.Context, root domain.ContentRef) ([]domain.ContentRef, error) {
	levels := [][]domain.ContentRef{{root}}
	for {
		current := levels[len(levels)-1]
		var next []domain.ContentRef
		for _, r := range current {
			if _, ok := r.Kind.Child(); !ok {
				continue
			}
			children, err := s.storage.ChildRefs(ctx, r.Kind, r.Id)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		if len(next) == 0 {
			break
		}
		levels = append(levels, next)
	}

	var order []domain.ContentRef
	for _, level := range slices.Backward(levels) {
		order = append(order, level...)
	}
	return order, nil
}
