// Package router sets up all HTTP routes and middleware chains for the
// catalog API. Register, login and catalog reads are open; customer,
// address and API-key management requires a session token.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ocapi/internal/handlers"
	"ocapi/internal/middleware"
	"ocapi/internal/store"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth       *handlers.Auth
	Categories *handlers.Categories
	Products   *handlers.Products
	Customers  *handlers.Customers
	Articles   *handlers.Articles
	ApiKeys    *handlers.ApiKeys
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(customers *store.CustomerStore, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadCustomer(customers))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	// Credential endpoints are rate-limited per client IP.
	authLimiter := middleware.NewRateLimiter(20, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	// Catalog: open reads and writes, mirroring the storefront admin.
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Categories.List)
		r.Post("/", h.Categories.Create)
		r.Get("/{id}", h.Categories.Get)
		r.Put("/{id}", h.Categories.Update)
		r.Delete("/{id}", h.Categories.Delete)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products.List)
		r.Post("/", h.Products.Create)
		r.Get("/{id}", h.Products.Get)
		r.Put("/{id}", h.Products.Update)
		r.Delete("/{id}", h.Products.Delete)
	})

	// Articles: reads and comments open, management open like the catalog.
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", h.Articles.List)
		r.Post("/", h.Articles.Create)
		r.Get("/{id}", h.Articles.Get)
		r.Put("/{id}", h.Articles.Update)
		r.Delete("/{id}", h.Articles.Delete)
		r.Get("/{id}/comments", h.Articles.ListComments)
		r.Post("/{id}/comments", h.Articles.AddComment)
		r.Post("/{id}/comments/{commentID}/replies", h.Articles.AddReply)
	})

	// Customer accounts and addresses require a session token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.Customers.List)
			r.Get("/{id}", h.Customers.Get)
			r.Put("/{id}", h.Customers.Update)
			r.Delete("/{id}", h.Customers.Delete)
			r.Get("/{id}/addresses", h.Customers.ListAddresses)
			r.Post("/{id}/addresses", h.Customers.AddAddress)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/{id}", h.Customers.GetAddress)
			r.Put("/{id}", h.Customers.UpdateAddress)
			r.Delete("/{id}", h.Customers.DeleteAddress)
		})

		r.Route("/apis", func(r chi.Router) {
			r.Get("/", h.ApiKeys.List)
			r.Post("/", h.ApiKeys.Create)
			r.Get("/{id}", h.ApiKeys.Get)
			r.Delete("/{id}", h.ApiKeys.Delete)
			r.Get("/{id}/ips", h.ApiKeys.ListIPs)
			r.Post("/{id}/ips", h.ApiKeys.AddIP)
			r.Get("/{id}/history", h.ApiKeys.History)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
