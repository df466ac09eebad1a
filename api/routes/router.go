package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/retailcore/backoffice/api/controllers"
	"github.com/retailcore/backoffice/api/middleware"
	"github.com/retailcore/backoffice/internal/orders"
	"github.com/retailcore/backoffice/internal/products"
	"github.com/retailcore/backoffice/internal/purchases"
	"github.com/retailcore/backoffice/pkg/config"
	"github.com/retailcore/backoffice/pkg/db"
	"github.com/retailcore/backoffice/pkg/logger"
	"github.com/retailcore/backoffice/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	ordersRepo orders.Repository,
	ordersSvc orders.Service,
	purchasesRepo purchases.Repository,
	purchasesSvc purchases.Service,
	productsRepo products.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// a typed nil *redis.Client must not leak into the interfaces below
	var redisP db.Pinger
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersSvc, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.OrderDetail(ordersRepo, logg))
				r.Patch("/", controllers.UpdateOrder(ordersSvc, logg))
				r.Delete("/", controllers.DeleteOrder(ordersSvc, logg))
				r.Post("/status", controllers.UpdateOrderStatus(ordersSvc, logg))
				r.Get("/total", controllers.OrderTotal(ordersSvc, logg))
				r.Post("/total/recalculate", controllers.RecalculateOrderTotal(ordersSvc, logg))
				r.Post("/items", controllers.AddOrderLineItem(ordersSvc, logg))
			})
		})

		r.Route("/order-items/{itemId}", func(r chi.Router) {
			r.Patch("/", controllers.UpdateOrderLineItem(ordersSvc, logg))
			r.Delete("/", controllers.RemoveOrderLineItem(ordersSvc, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", controllers.CreatePurchase(purchasesSvc, logg))
			r.Route("/{purchaseId}", func(r chi.Router) {
				r.Get("/", controllers.PurchaseDetail(purchasesRepo, logg))
				r.Post("/items", controllers.AddPurchaseItem(purchasesSvc, logg))
			})
		})

		r.Route("/purchase-items/{itemId}", func(r chi.Router) {
			r.Patch("/", controllers.UpdatePurchaseItem(purchasesSvc, logg))
			r.Delete("/", controllers.DeletePurchaseItem(purchasesSvc, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productsRepo, logg))
			r.Get("/{productId}", controllers.ProductDetail(productsRepo, logg))
		})
	})

	return r
}
