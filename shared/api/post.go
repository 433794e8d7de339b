package api

import "github.com/campusnet/campusnet/shared/domain"

// Request DTOs

type CreatePostRequest struct {
	Content string `json:"content" validate:"required"`
}

type EditPostRequest struct {
	Content string `json:"content" validate:"required"`
}

// Response DTOs

// ReactionView is the moderation state of a post or comment as seen by one user.
type ReactionView struct {
	LikeCount    int  `json:"likeCount"`
	DislikeCount int  `json:"dislikeCount"`
	ReportCount  int  `json:"reportCount"`
	IsLiked      bool `json:"isLiked"`
	IsDisliked   bool `json:"isDisliked"`
	IsReported   bool `json:"isReported"`
}

func NewReactionView(r domain.Reactions, user domain.UserId) ReactionView {
	state := r.State(user)
	return ReactionView{
		LikeCount:    r.LikedBy.Len(),
		DislikeCount: r.DisLikedBy.Len(),
		ReportCount:  r.ReportCount(),
		IsLiked:      state == domain.Liked,
		IsDisliked:   state == domain.Disliked,
		IsReported:   r.IsReported(user),
	}
}

type PostView struct {
	domain.Post
	ReactionView
	ContentHtml string `json:"contentHtml"`
}

func NewPostView(p domain.Post, user domain.UserId, html string) PostView {
	return PostView{Post: p, ReactionView: NewReactionView(p.Reactions, user), ContentHtml: html}
}

type PostListResponse struct {
	Thread ThreadView `json:"thread"`
	Posts  []PostView `json:"posts"`
}

type ReportedPostsResponse struct {
	Posts []PostView `json:"posts"`
}
