package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-session-gate/internal/guard"
)

const (
	signInPath = "/auth/login"
	homePath   = "/"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// credential workflows, no guard
	router.Group(func(r chi.Router) {
		r.Post("/auth/login", h.login)
		r.Post("/auth/register", h.register)
		r.Post("/auth/logout", h.logout)
	})

	// sign-in and sign-up destinations: an established session skips them
	router.Group(func(r chi.Router) {
		r.Use(guard.RedirectIfAuthed(h.sessions, homePath))
		r.Get("/auth/login", h.signInPage)
		r.Get("/auth/register", h.signUpPage)
	})

	// everything behind a session
	router.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth(h.sessions, signInPath))
		r.Get("/", h.dashboard)
	})

	return router
}
