package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neevdiamonds/storefront-backend/api/controllers"
	webhookcontrollers "github.com/neevdiamonds/storefront-backend/api/controllers/webhooks"
	"github.com/neevdiamonds/storefront-backend/api/middleware"
	"github.com/neevdiamonds/storefront-backend/internal/adminauth"
	"github.com/neevdiamonds/storefront-backend/internal/cart"
	"github.com/neevdiamonds/storefront-backend/internal/catalog"
	checkoutsvc "github.com/neevdiamonds/storefront-backend/internal/checkout"
	"github.com/neevdiamonds/storefront-backend/internal/orders"
	razorpaywebhook "github.com/neevdiamonds/storefront-backend/internal/webhooks/razorpay"
	"github.com/neevdiamonds/storefront-backend/pkg/auth/adminsession"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/db"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
	"github.com/neevdiamonds/storefront-backend/pkg/metrics"
	redislib "github.com/neevdiamonds/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	m *metrics.HTTPMetrics,
	dbClient *db.Client,
	redisClient *redislib.Client,
	sessions *adminsession.Manager,
	catalogService catalog.Service,
	cartService cart.Service,
	ordersService orders.Service,
	checkoutService checkoutsvc.Service,
	adminService adminauth.Service,
	webhookService *razorpaywebhook.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Gateway deliveries carry their own signature; no browser session involved.
	r.Post("/webhook", webhookcontrollers.RazorpayWebhook(webhookService, cfg.Gateway, m, logg))

	// Storefront routes ride on the anonymous session cookie.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Get("/", controllers.CatalogList(catalogService, cartService, logg))
		r.Get("/product/{id}", controllers.ProductGet(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Post("/add/{id}", controllers.CartAdd(cartService, logg))
			r.Post("/update", controllers.CartUpdate(cartService, logg))
			r.Post("/remove/{id}", controllers.CartRemove(cartService, logg))
		})

		r.Get("/checkout", controllers.CheckoutView(cartService, logg))
		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, m, logg))

		r.Get("/upi/{order_id}", controllers.UPIView(ordersService, cfg.UPI, logg))
		r.Get("/order/{order_id}", controllers.OrderGet(ordersService, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", controllers.AdminStatus(adminService, logg))
		r.Post("/login", controllers.AdminLogin(adminService, sessions, cfg.Session, logg))
		r.Get("/logout", controllers.AdminLogout(cfg.Session))
		r.Get("/status", controllers.AdminStatus(adminService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(sessions, cfg.Session, logg))

			r.Get("/", controllers.AdminDashboard(ordersService, catalogService, logg))
			r.Post("/password", controllers.AdminChangePassword(adminService, logg))

			r.Route("/product", func(r chi.Router) {
				r.Post("/add", controllers.AdminProductCreate(catalogService, logg))
				r.Post("/{id}/edit", controllers.AdminProductUpdate(catalogService, logg))
				r.Post("/{id}/delete", controllers.AdminProductDelete(catalogService, logg))
			})

			r.Route("/order", func(r chi.Router) {
				r.Post("/{id}/mark_paid", controllers.AdminOrderMarkPaid(ordersService, m, logg))
				r.Post("/{id}/reject", controllers.AdminOrderReject(ordersService, m, logg))
			})
		})
	})

	return r
}
