package api

import "github.com/campusnet/campusnet/shared/domain"

type NotificationListResponse struct {
	Notifications []domain.UserNotification `json:"notifications"`
	UnreadCount   int                       `json:"unreadCount"`
}

func NewNotificationListResponse(list []domain.UserNotification) NotificationListResponse {
	resp := NotificationListResponse{Notifications: list}
	for _, n := range list {
		if !n.Seen {
			resp.UnreadCount++
		}
	}
	return resp
}
