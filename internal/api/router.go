package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nameless-app/users-be/internal/api/handlers"
	"github.com/nameless-app/users-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	itemHandler := handlers.NewItemHandler()

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Put("/", userHandler.Update)
		r.Route("/{username}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Delete("/", userHandler.Delete)
		})
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", itemHandler.Create)
		r.Get("/{item_type}", itemHandler.GetType)
	})

	return r
}
