package handler

import (
	"net/http"

	"github.com/campusnet/campusnet/backend/internal/service"
	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/utils"
)

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "LikePost", domain.KindPost, service.ActionLike)
}

func (h *Handler) DislikePost(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "DislikePost", domain.KindPost, service.ActionDislike)
}

func (h *Handler) ReportPost(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "ReportPost", domain.KindPost, service.ActionReport)
}

func (h *Handler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "LikeComment", domain.KindComment, service.ActionLike)
}

func (h *Handler) DislikeComment(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "DislikeComment", domain.KindComment, service.ActionDislike)
}

func (h *Handler) ReportComment(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "ReportComment", domain.KindComment, service.ActionReport)
}

func (h *Handler) react(w http.ResponseWriter, r *http.Request, op string, kind domain.Kind, action service.Action) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	id, err := pathParam(r, "docId")
	if err != nil {
		fail(w, r, op, err)
		return
	}

	target, err := h.moderation.Toggle(r.Context(), kind, id, user, action)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NewReactionResponse(target, user.Id))
}

// GetReportedPosts is the admin moderation queue, most reported first.
func (h *Handler) GetReportedPosts(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "GetReportedPosts", err)
		return
	}
	posts, err := h.moderation.ReportedPosts(r.Context())
	if err != nil {
		fail(w, r, "GetReportedPosts", err)
		return
	}
	resp := api.ReportedPostsResponse{Posts: make([]api.PostView, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, h.postView(p, user.Id))
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetReportedComments(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "GetReportedComments", err)
		return
	}
	comments, err := h.moderation.ReportedComments(r.Context())
	if err != nil {
		fail(w, r, "GetReportedComments", err)
		return
	}
	resp := api.ReportedCommentsResponse{Comments: make([]api.CommentView, 0, len(comments))}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, h.commentView(c, user.Id))
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
