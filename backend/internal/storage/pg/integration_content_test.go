package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func setupForum(t *testing.T) domain.Forum {
	t.Helper()
	f := domain.Forum{Id: uuid.NewString(), IndexId: uuid.NewString(), Title: "Exams", Description: "Schedules", OwnerId: 1, CreatedAt: now()}
	require.NoError(t, storage.CreateForum(context.Background(), f))
	return f
}

func setupThread(t *testing.T, forumId domain.ContentId) domain.Thread {
	t.Helper()
	th := domain.Thread{Id: uuid.NewString(), IndexId: uuid.NewString(), ForumId: forumId, Title: "Finals", Description: "When",
		OwnerId: 2, Watchers: domain.NewUserSet(), CreatedAt: now()}
	require.NoError(t, storage.CreateThread(context.Background(), th))
	return th
}

func setupPost(t *testing.T, threadId domain.ContentId) domain.Post {
	t.Helper()
	p := domain.Post{Id: uuid.NewString(), IndexId: uuid.NewString(), ThreadId: threadId, Content: "Friday", OwnerId: 3,
		Reactions: domain.NewReactions(), CreatedAt: now()}
	require.NoError(t, storage.CreatePost(context.Background(), p))
	return p
}

func setupComment(t *testing.T, postId domain.ContentId) domain.Comment {
	t.Helper()
	c := domain.Comment{Id: uuid.NewString(), IndexId: uuid.NewString(), PostId: postId, Content: "Thanks", OwnerId: 4,
		Reactions: domain.NewReactions(), CreatedAt: now()}
	require.NoError(t, storage.CreateComment(context.Background(), c))
	return c
}

func TestForumRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := setupForum(t)

	got, err := storage.GetForum(ctx, f.Id)
	require.NoError(t, err)
	assert.Equal(t, f.IndexId, got.IndexId)
	assert.Equal(t, f.Title, got.Title)
	assert.True(t, f.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.EditedAt)

	edited := now()
	f.Title, f.EditedAt = "Exams and quizzes", &edited
	require.NoError(t, storage.UpdateForum(ctx, f))
	got, err = storage.GetForum(ctx, f.Id)
	require.NoError(t, err)
	assert.Equal(t, "Exams and quizzes", got.Title)
	require.NotNil(t, got.EditedAt)
	assert.True(t, edited.Equal(*got.EditedAt))

	_, err = storage.GetForum(ctx, "missing")
	assert.True(t, internal_errors.IsNotFound(err))
	err = storage.UpdateForum(ctx, domain.Forum{Id: "missing"})
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestCreateUnderMissingParent(t *testing.T) {
	ctx := context.Background()
	err := storage.CreateThread(ctx, domain.Thread{Id: uuid.NewString(), IndexId: uuid.NewString(), ForumId: "missing", Watchers: domain.NewUserSet(), CreatedAt: now()})
	assert.True(t, internal_errors.IsNotFound(err))
	err = storage.CreatePost(ctx, domain.Post{Id: uuid.NewString(), IndexId: uuid.NewString(), ThreadId: "missing", Reactions: domain.NewReactions(), CreatedAt: now()})
	assert.True(t, internal_errors.IsNotFound(err))
	err = storage.CreateComment(ctx, domain.Comment{Id: uuid.NewString(), IndexId: uuid.NewString(), PostId: "missing", Reactions: domain.NewReactions(), CreatedAt: now()})
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestListingsAndCounts(t *testing.T) {
	ctx := context.Background()
	f := setupForum(t)
	th := setupThread(t, f.Id)
	p1 := setupPost(t, th.Id)
	p2 := setupPost(t, th.Id)
	setupComment(t, p1.Id)
	setupComment(t, p1.Id)
	require.NoError(t, storage.UpdateThreadWatchers(ctx, th.Id, domain.NewUserSet(5, 6)))

	threads, err := storage.ListThreads(ctx, f.Id)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, 2, threads[0].PostCount)
	assert.Equal(t, 2, threads[0].WatcherCount)
	assert.Equal(t, []domain.UserId{5, 6}, threads[0].Watchers.Slice())

	posts, err := storage.ListPosts(ctx, th.Id)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p1.Id, posts[0].Id)
	assert.Equal(t, 2, posts[0].CommentsCount)
	assert.Equal(t, p2.Id, posts[1].Id)
	assert.Equal(t, 0, posts[1].CommentsCount)

	comments, err := storage.ListComments(ctx, p1.Id)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	forums, err := storage.ListForums(ctx)
	require.NoError(t, err)
	var found bool
	for _, summary := range forums {
		if summary.Id == f.Id {
			found = true
			assert.Equal(t, 1, summary.ThreadCount)
		}
	}
	assert.True(t, found)
}

func TestChildRefsAndDelete(t *testing.T) {
	ctx := context.Background()
	f := setupForum(t)
	th := setupThread(t, f.Id)
	p := setupPost(t, th.Id)
	c := setupComment(t, p.Id)

	refs, err := storage.ChildRefs(ctx, domain.KindForum, f.Id)
	require.NoError(t, err)
	assert.Equal(t, []domain.ContentRef{th.Ref()}, refs)

	refs, err = storage.ChildRefs(ctx, domain.KindPost, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []domain.ContentRef{c.Ref()}, refs)

	refs, err = storage.ChildRefs(ctx, domain.KindComment, c.Id)
	require.NoError(t, err)
	assert.Empty(t, refs)

	got, err := storage.GetPost(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount)

	require.NoError(t, storage.DeleteContent(ctx, domain.KindComment, c.Id))
	assert.True(t, internal_errors.IsNotFound(storage.DeleteContent(ctx, domain.KindComment, c.Id)))
	got, err = storage.GetPost(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentsCount)

	// foreign keys remove what is left beneath a deleted parent
	setupComment(t, p.Id)
	require.NoError(t, storage.DeleteContent(ctx, domain.KindForum, f.Id))
	_, err = storage.GetPost(ctx, p.Id)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestReactions(t *testing.T) {
	ctx := context.Background()
	f := setupForum(t)
	th := setupThread(t, f.Id)
	p := setupPost(t, th.Id)
	c := setupComment(t, p.Id)

	r := domain.NewReactions()
	r.ToggleLike(7)
	r.ToggleDislike(8)
	r.ToggleReport(9)
	require.NoError(t, storage.UpdateReactions(ctx, domain.KindPost, p.Id, r))

	target, err := storage.GetReactions(ctx, domain.KindPost, p.Id)
	require.NoError(t, err)
	assert.Equal(t, p.OwnerId, target.OwnerId)
	assert.Equal(t, []domain.UserId{7}, target.Reactions.LikedBy.Slice())
	assert.Equal(t, []domain.UserId{8}, target.Reactions.DisLikedBy.Slice())
	assert.Equal(t, []domain.UserId{9}, target.Reactions.ReportedBy.Slice())

	edited := now()
	require.NoError(t, storage.UpdatePost(ctx, domain.Post{Id: p.Id, Content: "Monday", EditedAt: &edited}))
	got, err := storage.GetPost(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, "Monday", got.Content)
	assert.True(t, got.LikedBy.Has(7), "content edits keep reactions")

	cr := domain.NewReactions()
	cr.ToggleReport(1)
	cr.ToggleReport(2)
	require.NoError(t, storage.UpdateReactions(ctx, domain.KindComment, c.Id, cr))

	reported, err := storage.ListReportedComments(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, reported)
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i-1].ReportCount(), reported[i].ReportCount())
	}

	posts, err := storage.ListReportedPosts(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(posts), p.Id)

	_, err = storage.GetReactions(ctx, domain.KindThread, th.Id)
	var e *internal_errors.ErrorWithStatusCode
	require.True(t, errors.As(err, &e))
	_, err = storage.GetReactions(ctx, domain.KindPost, "missing")
	assert.True(t, internal_errors.IsNotFound(err))
}

func ids(posts []domain.Post) []domain.ContentId {
	out := make([]domain.ContentId, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Id)
	}
	return out
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	f := setupForum(t)
	th := setupThread(t, f.Id)
	base := now()
	user := domain.UserId(time.Now().UnixNano())

	for i, id := range []string{uuid.NewString(), uuid.NewString(), uuid.NewString()} {
		require.NoError(t, storage.CreateNotification(ctx, domain.Notification{
			Id: id, CreatedBy: 1, ThreadId: th.Id, Message: "New post", Recipients: domain.NewUserSet(user, user+1),
			SeenBy: domain.NewUserSet(), CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := storage.ListNotifications(ctx, user, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	require.NoError(t, storage.UpdateNotificationSeenBy(ctx, list[0].Id, domain.NewUserSet(user)))
	n, err := storage.GetNotification(ctx, list[0].Id)
	require.NoError(t, err)
	assert.True(t, n.SeenByUser(user))
	assert.False(t, n.SeenByUser(user+1))

	none, err := storage.ListNotifications(ctx, user+2, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListContentSources(t *testing.T) {
	ctx := context.Background()
	f := setupForum(t)
	th := setupThread(t, f.Id)
	p := setupPost(t, th.Id)

	sources, err := storage.ListContentSources(ctx)
	require.NoError(t, err)
	byIndex := map[domain.IndexId]domain.ContentSource{}
	for _, s := range sources {
		byIndex[s.Ref.IndexId] = s
	}
	assert.Equal(t, domain.ContentSource{Ref: f.Ref(), Text: f.EmbeddingText(), CreatedAt: byIndex[f.IndexId].CreatedAt}, byIndex[f.IndexId])
	assert.Equal(t, th.EmbeddingText(), byIndex[th.IndexId].Text)
	assert.Equal(t, "Friday", byIndex[p.IndexId].Text)
	assert.Equal(t, domain.KindPost, byIndex[p.IndexId].Ref.Kind)
}
