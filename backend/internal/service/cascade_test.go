package service

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"

	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("forum cascade removes the whole subtree from both stores", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)
		require.Equal(t, 8, env.index.Len())

		res, err := env.content.Delete(ctx, tr.forum.Ref(), admin)
		require.NoError(t, err)
		assert.False(t, res.Degraded())
		assert.Equal(t, 8, res.Deleted)

		for _, kind := range domain.Kinds {
			assert.Equal(t, 0, env.store.Count(kind), "kind %s", kind)
		}
		assert.Equal(t, 0, env.index.Len())
	})

	t.Run("post delete counts itself and its comments", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)

		res, err := env.content.Delete(ctx, tr.posts[0].Ref(), bob)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Deleted)
		assert.Equal(t, 1, env.store.Count(domain.KindPost))
		assert.Equal(t, 2, env.store.Count(domain.KindComment))
		assert.Equal(t, 5, env.index.Len())

		for _, c := range tr.comments[:2] {
			_, ok := env.index.Get(c.IndexId)
			assert.False(t, ok)
		}
		_, ok := env.index.Get(tr.posts[1].IndexId)
		assert.True(t, ok, "sibling post untouched")
	})

	t.Run("children go before parents and mirrors before documents", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)

		_, err := env.content.Delete(ctx, tr.thread.Ref(), alice)
		require.NoError(t, err)

		order := env.store.deletedOrder
		require.Len(t, order, 7)
		assert.Equal(t, tr.thread.Id, order[len(order)-1])
		for _, c := range tr.comments {
			ci := slices.Index(order, c.Id)
			pi := slices.Index(order, c.PostId)
			assert.Less(t, ci, pi, "comment %s deleted after its post", c.Id)
		}
		assert.Len(t, env.index.deleteCalls, 7)
	})

	t.Run("comment delete touches nothing else", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)

		res, err := env.content.Delete(ctx, tr.comments[3].Ref(), carol)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Deleted)
		assert.Equal(t, 3, env.store.Count(domain.KindComment))
		assert.Equal(t, []domain.IndexId{tr.comments[3].IndexId}, env.index.deleteCalls)
	})

	t.Run("comment count follows creates and deletes", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)
		post := tr.posts[1]
		commentsOf := func() int {
			t.Helper()
			p, comments, err := env.content.ListComments(ctx, post.Id)
			require.NoError(t, err)
			assert.Len(t, comments, p.CommentsCount)
			return p.CommentsCount
		}
		require.Equal(t, 2, commentsOf())

		extra := env.create(t, domain.KindComment, post.Id, carol, "", "Room B12?").(domain.Comment)
		assert.Equal(t, 3, commentsOf())

		_, err := env.content.Delete(ctx, extra.Ref(), carol)
		require.NoError(t, err)
		assert.Equal(t, 2, commentsOf())

		_, err = env.content.Delete(ctx, tr.comments[2].Ref(), admin)
		require.NoError(t, err)
		assert.Equal(t, 1, commentsOf())

		stored, err := env.store.GetPost(ctx, post.Id)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.CommentsCount)
	})

	t.Run("mirror failure degrades but documents are gone", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)
		failing := tr.comments[1].IndexId
		env.index.deleteFunc = func(id domain.IndexId) error {
			if id == failing {
				return errors.New("connection reset")
			}
			return nil
		}

		res, err := env.content.Delete(ctx, tr.thread.Ref(), alice)
		require.NoError(t, err)
		assert.True(t, res.Degraded())
		assert.ErrorIs(t, res.Mirror, internal_errors.ErrIndexWrite)
		assert.Equal(t, 7, res.Deleted)
		assert.Equal(t, "Deleted, but 1 search index record(s) could not be removed", res.Warning())

		assert.Equal(t, 0, env.store.Count(domain.KindComment))
		_, ok := env.index.Get(failing)
		assert.True(t, ok, "orphan left for the reconciler")
	})

	t.Run("document failure aborts", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)
		env.store.deleteContentFunc = func(kind domain.Kind, id domain.ContentId) error {
			if kind == domain.KindPost {
				return errors.New("lock timeout")
			}
			return nil
		}

		res, err := env.content.Delete(ctx, tr.thread.Ref(), alice)
		require.Error(t, err)
		assert.Equal(t, 4, res.Deleted, "the comment level went first")
		assert.Equal(t, 0, env.store.Count(domain.KindComment))
		assert.Equal(t, 1, env.store.Count(domain.KindThread))
		assert.Equal(t, 2, env.store.Count(domain.KindPost))
	})

	t.Run("authorization", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)

		_, err := env.content.Delete(ctx, tr.posts[0].Ref(), carol)
		requireStatus(t, err, http.StatusForbidden)

		_, err = env.content.Delete(ctx, tr.forum.Ref(), domain.User{Id: admin.Id})
		requireStatus(t, err, http.StatusForbidden)

		res, err := env.content.Delete(ctx, tr.posts[0].Ref(), admin)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Deleted)
	})

	t.Run("missing or mismatched target", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)

		_, err := env.content.Delete(ctx, domain.ContentRef{Kind: domain.KindPost, Id: "missing"}, admin)
		requireStatus(t, err, http.StatusNotFound)

		ref := tr.posts[0].Ref()
		ref.IndexId = "stale"
		_, err = env.content.Delete(ctx, ref, admin)
		requireStatus(t, err, http.StatusNotFound)
		assert.Empty(t, env.index.deleteCalls)
	})

	t.Run("deleting twice", func(t *testing.T) {
		env := newTestEnv(t)
		tr := env.buildTree(t)

		_, err := env.content.Delete(ctx, tr.comments[0].Ref(), carol)
		require.NoError(t, err)
		_, err = env.content.Delete(ctx, tr.comments[0].Ref(), carol)
		requireStatus(t, err, http.StatusNotFound)
	})
}
