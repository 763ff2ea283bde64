/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers; all business
  rules live in the retail and reports packages.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the desktop shell

ROUTE GROUPS:
  /api/customers/*   Customer CRUD and search
  /api/products/*    Product CRUD and stock adjustments
  /api/sales/*       Sale recording and cancellation
  /api/reports/*     Read-only reports and chart series
  /api/company       Company info
  /api/receipt-config Receipt layout
  /api/backup        Whole-store export/import
  /api/reset         Clear all data
  /api/dashboard     Summary counters

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Get("/{id}", h.GetCustomer)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
			r.Post("/{id}/adjustments", h.AdjustStock)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.RecordSale)
			r.Delete("/{id}", h.CancelSale)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily", h.DailyReport)
			r.Get("/stock", h.StockReport)
			r.Get("/customers", h.CustomerReport)
			r.Get("/sales/detailed", h.DetailedSalesReport)
			r.Get("/customers/detailed", h.DetailedCustomerReport)
			r.Get("/series/monthly", h.MonthlySeries)
			r.Get("/series/stock", h.StockDistribution)
		})

		r.Get("/company", h.GetCompany)
		r.Put("/company", h.SaveCompany)
		r.Get("/receipt-config", h.GetReceiptConfig)
		r.Put("/receipt-config", h.SaveReceiptConfig)

		r.Get("/backup", h.ExportBackup)
		r.Post("/backup", h.ImportBackup)
		r.Post("/reset", h.Reset)

		r.Get("/dashboard", h.Dashboard)
	})

	return r
}
