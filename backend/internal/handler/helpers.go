package handler

import (
	"net/http"
	"strings"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/errors"
	mw "github.com/campusnet/campusnet/shared/middleware"
	"github.com/campusnet/campusnet/shared/utils"
	"github.com/go-chi/chi/v5"
)

// currentUser returns the caller resolved by the auth middleware.
func currentUser(r *http.Request) (domain.User, error) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		return domain.User{}, errors.Unauthorized("Please sign-in")
	}
	return *user, nil
}

// fail logs a failed operation with its caller and the addressed path, then
// writes the error response. Anonymous callers are logged as actor 0.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var actor domain.UserId
	if user := mw.GetUserFromContext(r); user != nil {
		actor = user.Id
	}
	utils.WriteErrorAndStatusCode(w, err, "operation", op, "actor", actor, "path", r.URL.Path)
}

// pathParam returns a required, non blank route parameter.
func pathParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", errors.InvalidOperation("Missing " + name)
	}
	return v, nil
}

// refParam reads the {docId}/{indexId} pair addressing an existing entity.
func refParam(r *http.Request, kind domain.Kind, docParam, indexParam string) (domain.ContentRef, error) {
	id, err := pathParam(r, docParam)
	if err != nil {
		return domain.ContentRef{}, err
	}
	indexId, err := pathParam(r, indexParam)
	if err != nil {
		return domain.ContentRef{}, err
	}
	return domain.ContentRef{Kind: kind, Id: id, IndexId: indexId}, nil
}

func (h *Handler) postView(p domain.Post, user domain.UserId) api.PostView {
	return api.NewPostView(p, user, h.text.Render(p.Content))
}

func (h *Handler) commentView(c domain.Comment, user domain.UserId) api.CommentView {
	return api.NewCommentView(c, user, h.text.Render(c.Content))
}

// contentView renders an entity returned by a create or edit.
func (h *Handler) contentView(c domain.Content, user domain.UserId) any {
	switch v := c.(type) {
	case domain.Thread:
		return api.NewThreadView(v, user)
	case domain.Post:
		return h.postView(v, user)
	case domain.Comment:
		return h.commentView(v, user)
	}
	return c
}
