package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

func NewHandler(authHandler *AuthHandler, userHandler *UserHandler, authenticator *Authenticator, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/refresh-token", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.With(authenticator.RequireAuth).Get("/me", authHandler.Me)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticator.RequireAuth)
			r.Patch("/me", userHandler.UpdateMe)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
			})
		})
	})

	return r
}
