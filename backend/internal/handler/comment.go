package handler

import (
	"net/http"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/utils"
)

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	data, err := createTarget(r, domain.KindComment, "postDocId", "postIndexId")
	if err != nil {
		fail(w, r, "CreateComment", err)
		return
	}
	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "CreateComment", err)
		return
	}
	data.Content = body.Content
	h.create(w, r, "CreateComment", data)
}

func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "GetComments", err)
		return
	}
	postId, err := pathParam(r, "postId")
	if err != nil {
		fail(w, r, "GetComments", err)
		return
	}

	post, comments, err := h.content.ListComments(r.Context(), postId)
	if err != nil {
		fail(w, r, "GetComments", err)
		return
	}
	resp := api.CommentListResponse{Post: h.postView(post, user.Id), Comments: make([]api.CommentView, 0, len(comments))}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, h.commentView(c, user.Id))
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	data, err := editTarget(r, domain.KindComment)
	if err != nil {
		fail(w, r, "EditComment", err)
		return
	}
	var body api.EditCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "EditComment", err)
		return
	}
	data.Content = body.Content
	h.edit(w, r, "EditComment", data)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "DeleteComment", domain.KindComment)
}
