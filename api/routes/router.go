package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Saymandev/samucha-storefront/api/controllers"
	cartcontrollers "github.com/Saymandev/samucha-storefront/api/controllers/cart"
	"github.com/Saymandev/samucha-storefront/api/middleware"
	"github.com/Saymandev/samucha-storefront/internal/cart"
	product "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/Saymandev/samucha-storefront/pkg/config"
	"github.com/Saymandev/samucha-storefront/pkg/db"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
	"github.com/Saymandev/samucha-storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	cartService cart.Service,
	productService product.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(productService, logg))
		r.Get("/products/{productId}", controllers.ProductGet(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartService, logg))
				r.Delete("/", cartcontrollers.CartClear(cartService, logg))
				r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
				r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(cartService, logg))
			})

			r.Route("/session", func(r chi.Router) {
				r.Put("/preferences", cartcontrollers.SessionPreferences(cartService, logg))
				r.Post("/sign-in", cartcontrollers.SessionSignIn(cartService, logg))
				r.Post("/sign-out", cartcontrollers.SessionSignOut(cartService, logg))
			})
		})
	})

	r.Route("/api/admin/v1/products", func(r chi.Router) {
		r.Get("/", controllers.AdminProductList(productService, logg))
		r.Post("/", controllers.AdminCreateProduct(productService, logg))
		r.Route("/{productId}", func(r chi.Router) {
			r.Put("/attributes", controllers.AdminReplaceAttributes(productService, logg))
			r.Delete("/attributes/{name}", controllers.AdminRemoveAttribute(productService, logg))
			r.Post("/attributes/{name}/values", controllers.AdminAddAttributeValue(productService, logg))
			r.Delete("/attributes/{name}/values/{value}", controllers.AdminRemoveAttributeValue(productService, logg))
			r.Get("/variants/preview", controllers.AdminPreviewVariants(productService, logg))
			r.Post("/variants/generate", controllers.AdminGenerateVariants(productService, logg))
			r.Patch("/variants/{variantId}", controllers.AdminUpdateVariant(productService, logg))
		})
	})

	return r
}
