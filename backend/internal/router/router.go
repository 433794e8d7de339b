package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campusnet/campusnet/backend/internal/setup"
	mw "github.com/campusnet/campusnet/shared/middleware"
	"github.com/campusnet/campusnet/shared/middleware/metrics"
)

// New creates and configures a chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that group
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	h := deps.Handler
	authMw := deps.Auth
	cfg := deps.Config.Public
	limits := deps.Limiters

	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(cfg.SecureCookies))

	// Probes and metrics are unauthenticated
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))

		// Admin routes
		r.Route("/admin/forums", func(r chi.Router) {
			r.Use(authMw.AdminOnly())
			r.Post("/create-forum", h.CreateForum)
			r.Put("/edit-forum/{docId}/{indexId}", h.EditForum)
			r.Delete("/delete-forum/{docId}/{indexId}", h.DeleteForum)
			r.Get("/reported-posts", h.GetReportedPosts)
			r.Get("/reported-comments", h.GetReportedComments)
		})

		// Logged-in user routes
		r.Route("/forums", func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Use(mw.RateLimit(limits.Default, mw.GetUserIDFromContext))

			r.Get("/get-forums", h.GetForums)
			r.Get("/get-threads/{forumId}", h.GetThreads)
			r.Get("/get-posts/{threadId}", h.GetPosts)
			r.Get("/get-comments/{postId}", h.GetComments)

			// Writes that embed text
			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimit(limits.Write, mw.GetUserIDFromContext))
				r.Post("/create-thread/{forumDocId}/{forumIndexId}", h.CreateThread)
				r.Post("/create-post/{threadDocId}/{threadIndexId}", h.CreatePost)
				r.Post("/create-comment/{postDocId}/{postIndexId}", h.CreateComment)
				r.Put("/edit-thread/{docId}/{indexId}", h.EditThread)
				r.Put("/edit-post/{docId}/{indexId}", h.EditPost)
				r.Put("/edit-comment/{docId}/{indexId}", h.EditComment)
			})

			r.Delete("/delete-thread/{docId}/{indexId}", h.DeleteThread)
			r.Delete("/delete-post/{docId}/{indexId}", h.DeletePost)
			r.Delete("/delete-comment/{docId}/{indexId}", h.DeleteComment)

			r.Put("/like-post/{docId}", h.LikePost)
			r.Put("/dislike-post/{docId}", h.DislikePost)
			r.Put("/report-post/{docId}", h.ReportPost)
			r.Put("/like-comment/{docId}", h.LikeComment)
			r.Put("/dislike-comment/{docId}", h.DislikeComment)
			r.Put("/report-comment/{docId}", h.ReportComment)

			r.Put("/watch-thread/{threadId}", h.ToggleWatch)
			r.Get("/watch-status/{threadId}", h.WatchStatus)
			r.Get("/notifications", h.GetNotifications)
			r.Put("/notifications/{id}/read", h.MarkNotificationRead)

			r.With(mw.RateLimit(limits.Search, mw.GetUserIDFromContext)).
				Get("/search-forums/{query}", h.Search)
		})
	})

	return r
}
