package api

import "github.com/campusnet/campusnet/shared/domain"

// Request DTOs

type CreateForumRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type EditForumRequest struct {
	Title       string `json:"title" validate:"required_without=Description"`
	Description string `json:"description" validate:"required_without=Title"`
}

// Response DTOs

type ForumListResponse struct {
	Forums []domain.ForumSummary `json:"forums"`
}
