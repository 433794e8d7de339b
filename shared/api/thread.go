package api

import "github.com/campusnet/campusnet/shared/domain"

// Request DTOs

type CreateThreadRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type EditThreadRequest struct {
	Title       string `json:"title" validate:"required_without=Description"`
	Description string `json:"description" validate:"required_without=Title"`
}

// Response DTOs

type ThreadListResponse struct {
	Forum   domain.Forum           `json:"forum"`
	Threads []domain.ThreadSummary `json:"threads"`
}

// ThreadView is a thread header as seen by one user.
type ThreadView struct {
	domain.Thread
	WatcherCount int  `json:"watcherCount"`
	IsWatched    bool `json:"isWatched"`
}

func NewThreadView(t domain.Thread, user domain.UserId) ThreadView {
	return ThreadView{Thread: t, WatcherCount: t.Watchers.Len(), IsWatched: t.Watchers.Has(user)}
}

type WatchResponse struct {
	IsWatched bool `json:"isWatched"`
}
