package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hyunsol/techtalk/internal/analyze"
	"github.com/hyunsol/techtalk/internal/blog"
	"github.com/hyunsol/techtalk/internal/digest"
	"github.com/hyunsol/techtalk/internal/preview"
)

// RouterOptions carries the optional pieces of the API surface.
type RouterOptions struct {
	// AI enables the analyze endpoints when non-nil.
	AI *analyze.Client
	// Fetcher backs the url-preview proxy; nil uses defaults.
	Fetcher *preview.Fetcher
	// Mailer enables the manual digest trigger when non-nil.
	Mailer *digest.Mailer
	// AllowedOrigins configures CORS; empty allows none.
	AllowedOrigins []string
	// AdminToken, when set, protects the digest trigger with a Bearer token.
	AdminToken string
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *blog.Service, opts RouterOptions) chi.Router {
	h := NewHandler(svc, opts.AI, opts.Fetcher, opts.Mailer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Posts CRUD.
	r.Get("/posts", h.ListPosts)
	r.Post("/posts", h.CreatePost)
	r.Get("/posts/{id}", h.GetPost)
	r.Put("/posts/{id}", h.UpdatePost)
	r.Delete("/posts/{id}", h.DeletePost)
	r.Post("/posts/{id}/verify-password", h.VerifyPostPassword)

	// Comments.
	r.Get("/comments", h.ListComments)
	r.Post("/comments", h.CreateComment)
	r.Patch("/comments/{id}", h.UpdateComment)
	r.Delete("/comments/{id}", h.DeleteComment)

	// AI assists.
	r.Post("/analyze-url", h.AnalyzeURL)
	r.Post("/analyze-post", h.AnalyzePost)

	// Link preview proxy, same path the web client uses.
	r.Get("/api/url-preview", h.URLPreview)

	// Manual digest trigger, token-guarded when a token is configured.
	r.Group(func(g chi.Router) {
		g.Use(AuthMiddleware(opts.AdminToken != "", opts.AdminToken))
		g.Post("/emails/send-weekly", h.SendWeeklyDigest)
	})

	return r
}
