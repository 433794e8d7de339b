package domain

// ReactionState is the like/dislike state of one user on one post or comment.
type ReactionState string

const (
	Neutral  ReactionState = "neutral"
	Liked    ReactionState = "liked"
	Disliked ReactionState = "disliked"
)

// Reactions holds the moderation sets of a post or comment.
// A user is never in both LikedBy and DisLikedBy.
type Reactions struct {
	LikedBy    UserSet `json:"likedBy"`
	DisLikedBy UserSet `json:"disLikedBy"`
	ReportedBy UserSet `json:"reportedBy"`
}

func NewReactions() Reactions {
	return Reactions{LikedBy: NewUserSet(), DisLikedBy: NewUserSet(), ReportedBy: NewUserSet()}
}

// ensure replaces nil sets so the toggles below can mutate them.
func (r *Reactions) ensure() {
	if r.LikedBy == nil {
		r.LikedBy = NewUserSet()
	}
	if r.DisLikedBy == nil {
		r.DisLikedBy = NewUserSet()
	}
	if r.ReportedBy == nil {
		r.ReportedBy = NewUserSet()
	}
}

func (r Reactions) State(user UserId) ReactionState {
	switch {
	case r.LikedBy.Has(user):
		return Liked
	case r.DisLikedBy.Has(user):
		return Disliked
	}
	return Neutral
}

// ToggleLike moves user to liked, or back to neutral when already liked.
func (r *Reactions) ToggleLike(user UserId) ReactionState {
	r.ensure()
	r.DisLikedBy.Remove(user)
	if r.LikedBy.Toggle(user) {
		return Liked
	}
	return Neutral
}

// ToggleDislike moves user to disliked, or back to neutral when already disliked.
func (r *Reactions) ToggleDislike(user UserId) ReactionState {
	r.ensure()
	r.LikedBy.Remove(user)
	if r.DisLikedBy.Toggle(user) {
		return Disliked
	}
	return Neutral
}

// ToggleReport flips the report flag of user and returns whether it is now set.
func (r *Reactions) ToggleReport(user UserId) bool {
	r.ensure()
	return r.ReportedBy.Toggle(user)
}

func (r Reactions) IsReported(user UserId) bool {
	return r.ReportedBy.Has(user)
}

func (r Reactions) ReportCount() int {
	return r.ReportedBy.Len()
}

func (r Reactions) Clone() Reactions {
	return Reactions{
		LikedBy:    r.LikedBy.Clone(),
		DisLikedBy: r.DisLikedBy.Clone(),
		ReportedBy: r.ReportedBy.Clone(),
	}
}

// ReactionTarget is what a moderation toggle reads before writing.
type ReactionTarget struct {
	Kind      Kind
	Id        ContentId
	OwnerId   UserId
	Reactions Reactions
}
