package handler

import (
	"net/http"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/utils"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	data, err := createTarget(r, domain.KindThread, "forumDocId", "forumIndexId")
	if err != nil {
		fail(w, r, "CreateThread", err)
		return
	}
	var body api.CreateThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "CreateThread", err)
		return
	}
	data.Title, data.Description = body.Title, body.Description
	h.create(w, r, "CreateThread", data)
}

func (h *Handler) GetThreads(w http.ResponseWriter, r *http.Request) {
	forumId, err := pathParam(r, "forumId")
	if err != nil {
		fail(w, r, "GetThreads", err)
		return
	}
	forum, threads, err := h.content.ListThreads(r.Context(), forumId)
	if err != nil {
		fail(w, r, "GetThreads", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ThreadListResponse{Forum: forum, Threads: threads})
}

func (h *Handler) EditThread(w http.ResponseWriter, r *http.Request) {
	data, err := editTarget(r, domain.KindThread)
	if err != nil {
		fail(w, r, "EditThread", err)
		return
	}
	var body api.EditThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		fail(w, r, "EditThread", err)
		return
	}
	data.Title, data.Description = body.Title, body.Description
	h.edit(w, r, "EditThread", data)
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "DeleteThread", domain.KindThread)
}
