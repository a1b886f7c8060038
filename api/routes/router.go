package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/api/controllers"
	"github.com/orderlyy/orderlyy-backend/api/middleware"
	"github.com/orderlyy/orderlyy-backend/internal/analytics"
	"github.com/orderlyy/orderlyy-backend/internal/conversation"
	"github.com/orderlyy/orderlyy-backend/internal/lifecycle"
	"github.com/orderlyy/orderlyy-backend/internal/orders"
	"github.com/orderlyy/orderlyy-backend/internal/payments"
	"github.com/orderlyy/orderlyy-backend/internal/products"
	"github.com/orderlyy/orderlyy-backend/internal/stores"
	"github.com/orderlyy/orderlyy-backend/internal/subscriptions"
	"github.com/orderlyy/orderlyy-backend/pkg/config"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
	"github.com/orderlyy/orderlyy-backend/pkg/telegram"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db *gorm.DB,
	registry *prometheus.Registry,
	engine *conversation.Engine,
	lifecycleSvc *lifecycle.Service,
	storeService stores.Service,
	productService products.Service,
	orderService orders.Service,
	paymentService payments.Service,
	analyticsService *analytics.Service,
	gate *subscriptions.Gate,
	tg *telegram.Client,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(db, logg))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Post("/telegram/webhook", controllers.TelegramWebhook(engine, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.StoreAuth(storeService, logg))

		r.Get("/store", controllers.GetStore(gate, logg))
		r.Get("/orders", controllers.ListOrders(orderService, logg))
		r.Get("/products", controllers.ListProducts(productService, logg))
		r.Get("/payments", controllers.ListPayments(paymentService, logg))
		r.Get("/payments/{id}", controllers.GetPayment(paymentService, logg))
		r.Get("/payments/{id}/proof", controllers.GetPaymentProof(paymentService, tg, nil, logg))
		r.Get("/analytics", controllers.GetAnalytics(analyticsService, logg))

		// Mutations require a live subscription.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireActiveSubscription(gate, cfg.Dashboard.SupportLink(), logg))

			r.Put("/store/bank", controllers.UpdateStoreBank(storeService, gate, logg))
			r.Post("/products", controllers.CreateProduct(productService, logg))
			r.Put("/products/{id}", controllers.UpdateProduct(productService, logg))
			r.Put("/orders/{id}/status", controllers.UpdateOrderStatus(lifecycleSvc, logg))
			r.Put("/payments/{id}/approve", controllers.ApprovePayment(lifecycleSvc, logg))
			r.Put("/payments/{id}/reject", controllers.RejectPayment(lifecycleSvc, logg))
		})
	})

	return r
}
