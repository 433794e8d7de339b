package handler

import (
	"context"
	"net/http"

	"github.com/campusnet/campusnet/backend/internal/service"
	"github.com/campusnet/campusnet/shared/domain"
	mw "github.com/campusnet/campusnet/shared/middleware"
	"github.com/go-chi/chi/v5"
)

type MockContentService struct {
	CreateFunc       func(ctx context.Context, data domain.ContentCreationData) (domain.Content, service.WriteResult, error)
	EditFunc         func(ctx context.Context, data domain.ContentEditData) (domain.Content, service.WriteResult, error)
	DeleteFunc       func(ctx context.Context, ref domain.ContentRef, actor domain.User) (service.DeleteResult, error)
	ListForumsFunc   func(ctx context.Context) ([]domain.ForumSummary, error)
	ListThreadsFunc  func(ctx context.Context, forumId domain.ContentId) (domain.Forum, []domain.ThreadSummary, error)
	ListPostsFunc    func(ctx context.Context, threadId domain.ContentId) (domain.Thread, []domain.Post, error)
	ListCommentsFunc func(ctx context.Context, postId domain.ContentId) (domain.Post, []domain.Comment, error)
}

func (m *MockContentService) Create(ctx context.Context, data domain.ContentCreationData) (domain.Content, service.WriteResult, error) {
	return m.CreateFunc(ctx, data)
}

func (m *MockContentService) Edit(ctx context.Context, data domain.ContentEditData) (domain.Content, service.WriteResult, error) {
	return m.EditFunc(ctx, data)
}

func (m *MockContentService) Delete(ctx context.Context, ref domain.ContentRef, actor domain.User) (service.DeleteResult, error) {
	return m.DeleteFunc(ctx, ref, actor)
}

func (m *MockContentService) ListForums(ctx context.Context) ([]domain.ForumSummary, error) {
	return m.ListForumsFunc(ctx)
}

func (m *MockContentService) ListThreads(ctx context.Context, forumId domain.ContentId) (domain.Forum, []domain.ThreadSummary, error) {
	return m.ListThreadsFunc(ctx, forumId)
}

func (m *MockContentService) ListPosts(ctx context.Context, threadId domain.ContentId) (domain.Thread, []domain.Post, error) {
	return m.ListPostsFunc(ctx, threadId)
}

func (m *MockContentService) ListComments(ctx context.Context, postId domain.ContentId) (domain.Post, []domain.Comment, error) {
	return m.ListCommentsFunc(ctx, postId)
}

type MockModerationService struct {
	ToggleFunc           func(ctx context.Context, kind domain.Kind, id domain.ContentId, actor domain.User, action service.Action) (domain.ReactionTarget, error)
	ReportedPostsFunc    func(ctx context.Context) ([]domain.Post, error)
	ReportedCommentsFunc func(ctx context.Context) ([]domain.Comment, error)
}

func (m *MockModerationService) Toggle(ctx context.Context, kind domain.Kind, id domain.ContentId, actor domain.User, action service.Action) (domain.ReactionTarget, error) {
	return m.ToggleFunc(ctx, kind, id, actor, action)
}

func (m *MockModerationService) ReportedPosts(ctx context.Context) ([]domain.Post, error) {
	return m.ReportedPostsFunc(ctx)
}

func (m *MockModerationService) ReportedComments(ctx context.Context) ([]domain.Comment, error) {
	return m.ReportedCommentsFunc(ctx)
}

type MockNotificationService struct {
	ToggleWatchFunc func(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error)
	IsWatchingFunc  func(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error)
	ListFunc        func(ctx context.Context, user domain.UserId) ([]domain.UserNotification, error)
	MarkReadFunc    func(ctx context.Context, id domain.ContentId, user domain.UserId) error
}

func (m *MockNotificationService) Notify(ctx context.Context, event domain.ContentEvent, threadId, postId domain.ContentId, actor domain.UserId) error {
	return nil
}

func (m *MockNotificationService) ToggleWatch(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error) {
	return m.ToggleWatchFunc(ctx, threadId, user)
}

func (m *MockNotificationService) Watch(ctx context.Context, threadId domain.ContentId, user domain.UserId) error {
	return nil
}

func (m *MockNotificationService) Unwatch(ctx context.Context, threadId domain.ContentId, user domain.UserId) error {
	return nil
}

func (m *MockNotificationService) IsWatching(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error) {
	return m.IsWatchingFunc(ctx, threadId, user)
}

func (m *MockNotificationService) List(ctx context.Context, user domain.UserId) ([]domain.UserNotification, error) {
	return m.ListFunc(ctx, user)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id domain.ContentId, user domain.UserId) error {
	return m.MarkReadFunc(ctx, id, user)
}

type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string) ([]domain.SearchResult, error)
}

func (m *MockSearchService) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return m.SearchFunc(ctx, query)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(text string) string {
	return "<p>" + text + "</p>"
}

var (
	admin = domain.User{Id: 1, Email: "admin@campus.edu", Admin: true}
	alice = domain.User{Id: 2, Email: "alice@campus.edu"}
)

// withUser stands in for the auth middleware. A nil user leaves the request anonymous.
func withUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), mw.UserClaimsKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// testRouter mounts h on the same paths the production router uses.
func testRouter(h *Handler, user *domain.User) http.Handler {
	r := chi.NewRouter()
	r.Use(withUser(user))

	r.Get("/forums/get-forums", h.GetForums)
	r.Post("/admin/forums/create-forum", h.CreateForum)
	r.Put("/admin/forums/edit-forum/{docId}/{indexId}", h.EditForum)
	r.Delete("/admin/forums/delete-forum/{docId}/{indexId}", h.DeleteForum)

	r.Post("/forums/create-thread/{forumDocId}/{forumIndexId}", h.CreateThread)
	r.Get("/forums/get-threads/{forumId}", h.GetThreads)
	r.Put("/forums/edit-thread/{docId}/{indexId}", h.EditThread)
	r.Delete("/forums/delete-thread/{docId}/{indexId}", h.DeleteThread)

	r.Post("/forums/create-post/{threadDocId}/{threadIndexId}", h.CreatePost)
	r.Get("/forums/get-posts/{threadId}", h.GetPosts)
	r.Put("/forums/edit-post/{docId}/{indexId}", h.EditPost)
	r.Delete("/forums/delete-post/{docId}/{indexId}", h.DeletePost)

	r.Post("/forums/create-comment/{postDocId}/{postIndexId}", h.CreateComment)
	r.Get("/forums/get-comments/{postId}", h.GetComments)
	r.Put("/forums/edit-comment/{docId}/{indexId}", h.EditComment)
	r.Delete("/forums/delete-comment/{docId}/{indexId}", h.DeleteComment)

	r.Put("/forums/like-post/{docId}", h.LikePost)
	r.Put("/forums/dislike-post/{docId}", h.DislikePost)
	r.Put("/forums/report-post/{docId}", h.ReportPost)
	r.Put("/forums/like-comment/{docId}", h.LikeComment)
	r.Put("/forums/dislike-comment/{docId}", h.DislikeComment)
	r.Put("/forums/report-comment/{docId}", h.ReportComment)
	r.Get("/admin/forums/reported-posts", h.GetReportedPosts)
	r.Get("/admin/forums/reported-comments", h.GetReportedComments)

	r.Put("/forums/watch-thread/{threadId}", h.ToggleWatch)
	r.Get("/forums/watch-status/{threadId}", h.WatchStatus)
	r.Get("/forums/notifications", h.GetNotifications)
	r.Put("/forums/notifications/{id}/read", h.MarkNotificationRead)

	r.Get("/forums/search-forums/{query}", h.Search)
	return r
}
