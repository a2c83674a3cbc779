package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/lanoel/handlers"
	"github.com/Dosada05/lanoel/middleware"
	"github.com/Dosada05/lanoel/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Pages     *handlers.PageHandler
	Auth      *handlers.AuthHandler
	Votes     *handlers.VoteHandler
	Admin     *handlers.AdminHandler
	API       *handlers.APIHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	// UploadDir is served under /public/uploads/ when set.
	UploadDir string
}

func SetupRoutes(router chi.Router, h Handlers, sessions *session.Manager, opts Options, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.LoadIdentity(sessions, logger))

	if opts.UploadDir != "" {
		files := http.StripPrefix("/public/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
		router.Get("/public/uploads/*", files.ServeHTTP)
	}

	router.NotFound(handlers.WithIdentity(h.Pages.NotFound))

	router.Get("/", handlers.WithIdentity(h.Pages.Index))

	router.Get("/login", handlers.WithIdentity(h.Auth.LoginForm))
	router.Post("/login", handlers.WithIdentity(h.Auth.Login))
	router.Get("/logout", handlers.WithIdentity(h.Auth.Logout))
	router.Get("/register", handlers.WithIdentity(h.Auth.RegisterForm))
	router.Post("/register", handlers.WithIdentity(h.Auth.Register))

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(sessions))

		r.Get("/vote", handlers.WithIdentity(h.Votes.Show))
		r.Post("/vote/{gameID}", handlers.WithIdentity(h.Votes.Toggle))
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sessions))

		r.Get("/", handlers.WithIdentity(h.Admin.Dashboard))

		r.Post("/games", handlers.WithIdentity(h.Admin.CreateGame))
		r.Post("/games/{id}/update", handlers.WithIdentity(h.Admin.UpdateGame))
		r.Post("/games/{id}/delete", handlers.WithIdentity(h.Admin.DeleteGame))

		r.Post("/teams", handlers.WithIdentity(h.Admin.CreateTeam))
		r.Post("/teams/{id}/update", handlers.WithIdentity(h.Admin.UpdateTeam))
		r.Post("/teams/{id}/delete", handlers.WithIdentity(h.Admin.DeleteTeam))

		r.Post("/results", handlers.WithIdentity(h.Admin.CreateResult))
		r.Post("/results/{id}/update", handlers.WithIdentity(h.Admin.UpdateResult))
		r.Post("/results/{id}/delete", handlers.WithIdentity(h.Admin.DeleteResult))
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/leaderboard", h.API.Leaderboard)
		r.Get("/games", h.API.Games)
		r.Post("/votes/{gameID}", handlers.WithIdentity(h.Votes.ToggleAPI))
	})

	router.Get("/ws/leaderboard", h.WebSocket.ServeWs)
}
