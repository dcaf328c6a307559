package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/tatangdev/Mern-Invoice-App/internal/auth"
	"github.com/tatangdev/Mern-Invoice-App/internal/config"
	"github.com/tatangdev/Mern-Invoice-App/internal/handlers"
	"github.com/tatangdev/Mern-Invoice-App/internal/httpx"
	"github.com/tatangdev/Mern-Invoice-App/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares.
func New(conn *gorm.DB, cfg *config.Config) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := conn.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	catalog := services.NewCatalogService(conn)
	invoices := services.NewInvoiceService(conn, catalog)

	authHandler := handlers.NewAuthHandler(conn, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	productHandler := handlers.NewProductHandler(catalog)
	invoiceHandler := handlers.NewInvoiceHandler(invoices)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", authHandler.Routes)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(auth.RequireAuth(cfg.Auth.Secret))
			r.Route("/products", productHandler.Routes)
			r.Route("/invoices", invoiceHandler.Routes)
		})
	})

	return router
}
