package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	RequestTimeout time.Duration
}

// NewRouter wires the handlers under /api/v1 with the shared middleware
// stack. Session resolution runs globally; individual handlers decide
// whether an anonymous request is acceptable.
func NewRouter(
	cfg RouterConfig,
	sessions SessionStore,
	authH *AuthHandler,
	products *ProductHandler,
	carts *CartHandler,
	orders *OrdersHandler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionAuth(sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/logout", authH.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)
		})
		r.Get("/categories", products.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Post("/items", carts.AddItem)
			r.Patch("/items/{product_id}", carts.AdjustQuantity)
			r.Delete("/items/{product_id}", carts.RemoveItem)
		})

		r.Post("/checkout", orders.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.ListOrders)
			r.Get("/{id}", orders.GetOrder)
			r.Get("/{id}/invoice", orders.DownloadInvoice)
		})
	})

	return r
}
