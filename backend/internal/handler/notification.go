package handler

import (
	"net/http"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/utils"
)

func (h *Handler) ToggleWatch(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "ToggleWatch", err)
		return
	}
	threadId, err := pathParam(r, "threadId")
	if err != nil {
		fail(w, r, "ToggleWatch", err)
		return
	}

	watching, err := h.notifications.ToggleWatch(r.Context(), threadId, user.Id)
	if err != nil {
		fail(w, r, "ToggleWatch", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.WatchResponse{IsWatched: watching})
}

func (h *Handler) WatchStatus(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "WatchStatus", err)
		return
	}
	threadId, err := pathParam(r, "threadId")
	if err != nil {
		fail(w, r, "WatchStatus", err)
		return
	}

	watching, err := h.notifications.IsWatching(r.Context(), threadId, user.Id)
	if err != nil {
		fail(w, r, "WatchStatus", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.WatchResponse{IsWatched: watching})
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "GetNotifications", err)
		return
	}
	list, err := h.notifications.List(r.Context(), user.Id)
	if err != nil {
		fail(w, r, "GetNotifications", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NewNotificationListResponse(list))
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, "MarkNotificationRead", err)
		return
	}
	id, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, "MarkNotificationRead", err)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, user.Id); err != nil {
		fail(w, r, "MarkNotificationRead", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Notification marked as read"})
}
