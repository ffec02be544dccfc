package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"vidtube/internal/handler"
	"vidtube/internal/httputil"
	authmw "vidtube/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	CommentHandler  *handler.CommentHandler
	PlaylistHandler *handler.PlaylistHandler
	JWTSecret       string
	AllowedOrigins  []string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(authmw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireAuth := authmw.AuthMiddleware(cfg.JWTSecret)
	optionalAuth := authmw.OptionalAuthMiddleware(cfg.JWTSecret)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", cfg.CommentHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/{videoId}", cfg.CommentHandler.Create)
				r.Post("/{videoId}/replies/{commentId}", cfg.CommentHandler.Reply)
				r.Patch("/c/{commentId}", cfg.CommentHandler.Update)
				r.Delete("/c/{commentId}", cfg.CommentHandler.Delete)
			})
		})

		r.Route("/playlists", func(r chi.Router) {
			// Public reads with optional authentication
			r.Group(func(r chi.Router) {
				r.Use(optionalAuth)
				r.Get("/{playlistId}", cfg.PlaylistHandler.Get)
				r.Get("/channel/{username}", cfg.PlaylistHandler.ListChannel)
				r.Get("/video/{videoId}", cfg.PlaylistHandler.ListByVideo)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", cfg.PlaylistHandler.Create)
				r.Patch("/{playlistId}", cfg.PlaylistHandler.Update)
				r.Delete("/{playlistId}", cfg.PlaylistHandler.Delete)
				r.Patch("/add/{videoId}/{playlistId}", cfg.PlaylistHandler.AddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", cfg.PlaylistHandler.RemoveVideo)
				r.Get("/user/{userId}", cfg.PlaylistHandler.ListMine)
			})
		})
	})

	return r
}
