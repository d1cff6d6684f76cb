package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"devmasters/config"
	"devmasters/middleware"
	"devmasters/service"
)

func NewRouter(cfg *config.Config, svc *service.ProjectService, log *zap.Logger) http.Handler {
	projectHandler := NewProjectHandler(cfg, svc, log)
	healthHandler := NewHealthHandler(svc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(log.Named("http")))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Location"},
	}))

	router.Get("/", healthHandler.Root)
	router.Get("/health", healthHandler.Health)
	router.Route("/projects", projectHandler.Routes)

	return router
}
