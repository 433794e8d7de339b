package api

import (
	"encoding/json"
	"testing"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReactionView(t *testing.T) {
	r := domain.NewReactions()
	r.ToggleLike(1)
	r.ToggleLike(2)
	r.ToggleDislike(3)
	r.ToggleReport(2)

	assert.Equal(t, ReactionView{LikeCount: 2, DislikeCount: 1, ReportCount: 1, IsLiked: true, IsReported: true}, NewReactionView(r, 2))
	assert.Equal(t, ReactionView{LikeCount: 2, DislikeCount: 1, ReportCount: 1, IsDisliked: true}, NewReactionView(r, 3))
	assert.Equal(t, ReactionView{LikeCount: 2, DislikeCount: 1, ReportCount: 1}, NewReactionView(r, 9))
}

func TestPostViewJSON(t *testing.T) {
	r := domain.NewReactions()
	r.ToggleLike(7)
	view := NewPostView(domain.Post{Id: "post-1", Content: "hi", Reactions: r, CommentsCount: 2}, 7, "<p>hi</p>")

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, "post-1", fields["id"])
	assert.Equal(t, []any{float64(7)}, fields["likedBy"])
	assert.Equal(t, float64(1), fields["likeCount"])
	assert.Equal(t, true, fields["isLiked"])
	assert.Equal(t, float64(2), fields["commentsCount"])
	assert.Equal(t, "<p>hi</p>", fields["contentHtml"])
}

func TestThreadViewHidesWatchers(t *testing.T) {
	view := NewThreadView(domain.Thread{Id: "thread-1", Watchers: domain.NewUserSet(4, 5)}, 5)
	assert.True(t, view.IsWatched)
	assert.Equal(t, 2, view.WatcherCount)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "watchers\"")
	assert.Contains(t, string(raw), `"watcherCount":2`)
}

func TestNotificationListUnreadCount(t *testing.T) {
	resp := NewNotificationListResponse([]domain.UserNotification{{Seen: true}, {}, {}})
	assert.Equal(t, 2, resp.UnreadCount)
	assert.Len(t, resp.Notifications, 3)
}
