// Package handler exposes the storefront HTTP API: product catalog, session
// carts, checkout, customer order lookup, and admin order management.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ormolu/antiq-storefront/internal/domain/cart"
	"github.com/ormolu/antiq-storefront/internal/domain/order"
	"github.com/ormolu/antiq-storefront/internal/domain/product"
)

// sessionHeader carries the browsing-session identifier that keys the cart.
const sessionHeader = "X-Session-ID"

// Handler implements the storefront API, delegating business logic to the
// injected domain services.
type Handler struct {
	products product.Repository
	carts    *cart.Service
	orders   *order.Service
}

// New constructs a Handler with the required domain dependencies.
func New(products product.Repository, carts *cart.Service, orders *order.Service) *Handler {
	return &Handler{
		products: products,
		carts:    carts,
		orders:   orders,
	}
}

// Routes mounts all API routes on a chi router. Admin routes are guarded by
// the given security middleware.
func (h *Handler) Routes(sec *Security) http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productID}", h.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireSession)
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Put("/items/{productID}", h.UpdateCartItem)
			r.Delete("/items/{productID}", h.RemoveCartItem)
		})

		r.With(requireSession).Post("/checkout", h.Checkout)

		r.Get("/orders/{orderID}", h.GetOrder)
		r.Post("/orders/{orderID}/cancel", h.CancelOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Use(sec.RequireAdmin)
			r.Get("/orders", h.AdminListOrders)
			r.Put("/orders/{orderID}/status", h.AdminUpdateStatus)
			r.Delete("/orders/{orderID}", h.AdminDeleteOrder)
		})
	})

	return r
}

// requireSession rejects cart and checkout requests that lack a session id.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(sessionHeader) == "" {
			writeError(w, http.StatusBadRequest, sessionHeader+" header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionID(r *http.Request) string {
	return r.Header.Get(sessionHeader)
}
