package api

import "github.com/campusnet/campusnet/shared/domain"

// Request DTOs

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type EditCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Response DTOs

type CommentView struct {
	domain.Comment
	ReactionView
	ContentHtml string `json:"contentHtml"`
}

func NewCommentView(c domain.Comment, user domain.UserId, html string) CommentView {
	return CommentView{Comment: c, ReactionView: NewReactionView(c.Reactions, user), ContentHtml: html}
}

type CommentListResponse struct {
	Post     PostView      `json:"post"`
	Comments []CommentView `json:"comments"`
}

type ReportedCommentsResponse struct {
	Comments []CommentView `json:"comments"`
}
