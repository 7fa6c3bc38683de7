/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/reports/*     Periodic income/expense reports
  /api/incomes/*     Income record CRUD
  /api/expenses/*    Expense record CRUD
  /api/categories/*  Category CRUD

SECURITY NOTE:
  Owner identity comes from the X-Owner-ID header; authentication proper is
  expected to run in front of this service and set it.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Owner-ID"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Report routes: {domain} is incomes or expenses
		r.Route("/reports/{domain}", func(r chi.Router) {
			r.Get("/{year}", h.YearReport)
			r.Get("/{year}/{month}", h.YearMonthReport)
		})

		// Record routes, one group per domain
		for _, domain := range []string{"incomes", "expenses"} {
			r.Route("/"+domain, func(r chi.Router) {
				r.Use(withDomain(domain))
				r.Get("/", h.ListRecords)
				r.Post("/", h.CreateRecord)
				r.Delete("/{id}", h.DeleteRecord)
			})
		}

		// Category routes
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Get("/{id}", h.GetCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})

	return r
}

// withDomain pins the {domain} route parameter for routes mounted under a
// fixed path, so record handlers resolve their store the same way report
// handlers do.
func withDomain(domain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rctx := chi.RouteContext(r.Context())
			rctx.URLParams.Add("domain", domain)
			next.ServeHTTP(w, r)
		})
	}
}
