package api

import "github.com/campusnet/campusnet/shared/domain"

// ReactionResponse answers like, dislike and report toggles.
type ReactionResponse struct {
	Id         domain.ContentId `json:"id"`
	Kind       domain.Kind      `json:"kind"`
	LikedBy    domain.UserSet   `json:"likedBy"`
	DisLikedBy domain.UserSet   `json:"disLikedBy"`
	ReportedBy domain.UserSet   `json:"reportedBy"`
	ReactionView
}

func NewReactionResponse(target domain.ReactionTarget, user domain.UserId) ReactionResponse {
	r := target.Reactions
	return ReactionResponse{
		Id:           target.Id,
		Kind:         target.Kind,
		LikedBy:      r.LikedBy,
		DisLikedBy:   r.DisLikedBy,
		ReportedBy:   r.ReportedBy,
		ReactionView: NewReactionView(r, user),
	}
}
