package handler

import (
	"net/http"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/utils"
)

func (h *Handler) CreateForum(w http.ResponseWriter, r *http.Request) {
	data, err := createTarget(r, domain.KindForum, "", "")
	if err != nil {
		fail(w, r, "CreateForum", err)
		return
	}
	var body api.CreateForumRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "CreateForum", err)
		return
	}
	data.Title, data.Description = body.Title, body.Description
	h.create(w, r, "CreateForum", data)
}

func (h *Handler) GetForums(w http.ResponseWriter, r *http.Request) {
	forums, err := h.content.ListForums(r.Context())
	if err != nil {
		fail(w, r, "GetForums", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ForumListResponse{Forums: forums})
}

func (h *Handler) EditForum(w http.ResponseWriter, r *http.Request) {
	data, err := editTarget(r, domain.KindForum)
	if err != nil {
		fail(w, r, "EditForum", err)
		return
	}
	var body api.EditForumRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "EditForum", err)
		return
	}
	data.Title, data.Description = body.Title, body.Description
	h.edit(w, r, "EditForum", data)
}

func (h *Handler) DeleteForum(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "DeleteForum", domain.KindForum)
}
