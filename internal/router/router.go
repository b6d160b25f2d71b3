// Package router sets up all HTTP routes and middleware chains for
// inkwell. It organizes routes into public, auth and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(
	sessions middleware.SessionSource,
	tokens *middleware.TokenVerifier,
	limiter *middleware.RateLimiter,
	public *handlers.Public,
	admin *handlers.Admin,
	auth *handlers.Auth,
	secureCookies bool,
) chi.Router {
	r := chi.NewRouter()
	csrf := middleware.NewCSRF(secureCookies)

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadIdentity(sessions, tokens))

	// Health check: no auth, no CSRF, no rate limit.
	r.Get("/health", healthHandler)

	// Session endpoints. Login is rate-limited and sits outside CSRF since
	// the caller has no cookie yet.
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/login", auth.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(csrf)
			r.Post("/logout", auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", auth.Me)
		})
	})

	// Admin writes: authenticated, CSRF-checked for cookie sessions.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(csrf)

		r.Route("/articles", func(r chi.Router) {
			r.Post("/", admin.CreateArticle)
			r.Put("/{id}", admin.UpdateArticle)
			r.Post("/{id}/status", admin.SetArticleStatus)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			r.Post("/", admin.CreateCategory)
			r.Put("/{id}", admin.UpdateCategory)
			r.Delete("/{id}", admin.DeleteCategory)
		})
	})

	// Public read API.
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Get("/", public.Home)
		r.Get("/featured/", public.Featured)
		r.Get("/categories/", public.Categories)
		r.Get("/category/{slug}/", public.Category)
		r.Get("/draft/{id}/", public.Draft)
		r.Get("/{year:[0-9]{4}}/{month:[0-9]{1,2}}/{day:[0-9]{1,2}}/{slug}/", public.Article)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
