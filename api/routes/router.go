package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avelinelabs/giftnest-backend/api/controllers"
	"github.com/avelinelabs/giftnest-backend/api/middleware"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	"github.com/avelinelabs/giftnest-backend/pkg/config"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	snapshots snapshot.Store,
	shoppers *shopper.Manager,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, snapshots, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(shoppers, logg))
			r.Delete("/", controllers.CartClear(shoppers, logg))
			r.Post("/items", controllers.CartAddItem(shoppers, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(shoppers, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(shoppers, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(shoppers, logg))
			r.Delete("/", controllers.WishlistClear(shoppers, logg))
			r.Post("/items", controllers.WishlistAddItem(shoppers, logg))
			r.Get("/items/{productId}", controllers.WishlistContains(shoppers, logg))
			r.Delete("/items/{productId}", controllers.WishlistRemoveItem(shoppers, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutGet(shoppers, logg))
			r.Patch("/shipping-address", controllers.CheckoutUpdateShippingAddress(shoppers, logg))
			r.Patch("/payment", controllers.CheckoutUpdatePayment(shoppers, logg))
			r.Post("/place-order", controllers.CheckoutPlaceOrder(shoppers, logg))
			r.Post("/reset", controllers.CheckoutReset(shoppers, logg))
		})
	})

	return r
}
