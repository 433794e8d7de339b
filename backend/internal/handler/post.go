package handler

import (
	"net/http"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/utils"
)

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	data, err := createTarget(r, domain.KindPost, "threadDocId", "threadIndexId")
	if err != nil {
		fail(w, r, "CreatePost", err)
		return
	}
	var body api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "CreatePost", err)
		return
	}
	data.Content = body.Content
	h.create(w, r, "CreatePost", data)
}

// GetPosts returns a thread header with its posts. A deleted thread is a 404
// even if orphaned posts were left behind.
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "GetPosts", err)
		return
	}
	threadId, err := pathParam(r, "threadId")
	if err != nil {
		fail(w, r, "GetPosts", err)
		return
	}

	thread, posts, err := h.content.ListPosts(r.Context(), threadId)
	if err != nil {
		fail(w, r, "GetPosts", err)
		return
	}
	resp := api.PostListResponse{Thread: api.NewThreadView(thread, user.Id), Posts: make([]api.PostView, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, h.postView(p, user.Id))
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	data, err := editTarget(r, domain.KindPost)
	if err != nil {
		fail(w, r, "EditPost", err)
		return
	}
	var body api.EditPostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "EditPost", err)
		return
	}
	data.Content = body.Content
	h.edit(w, r, "EditPost", data)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "DeletePost", domain.KindPost)
}
