package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/co-developer342/fyp-wednesday/internal/middleware"
)

func NewRouter(cartHandler *CartHandler, catalogHandler *CatalogHandler, checkoutHandler *CheckoutHandler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(corsOrigins))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/product/{productId}", cartHandler.RemoveProduct)
			r.Put("/items/product/{productId}/attributes", cartHandler.UpdateProductAttribute)
			r.Delete("/items/{lineId}", cartHandler.RemoveLine)
			r.Put("/items/{lineId}/attributes", cartHandler.UpdateLineAttribute)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{slug}", catalogHandler.GetProduct)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetState)
			r.Post("/", checkoutHandler.Submit)
			r.Post("/token", checkoutHandler.StartToken)
		})

		r.Get("/orders/user/{userId}", checkoutHandler.ListOrders)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}
