package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aromaten/aromaten-backend/api/controllers"
	"github.com/aromaten/aromaten-backend/api/middleware"
	"github.com/aromaten/aromaten-backend/internal/auth"
	"github.com/aromaten/aromaten-backend/internal/catalog"
	"github.com/aromaten/aromaten-backend/internal/export"
	"github.com/aromaten/aromaten-backend/internal/offers"
	"github.com/aromaten/aromaten-backend/internal/orders"
	"github.com/aromaten/aromaten-backend/pkg/auth/session"
	"github.com/aromaten/aromaten-backend/pkg/config"
	"github.com/aromaten/aromaten-backend/pkg/db"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/metrics"
	redisclient "github.com/aromaten/aromaten-backend/pkg/redis"
	"github.com/aromaten/aromaten-backend/pkg/storage/local"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redisclient.Client
	Sessions session.Checker

	AuthService    auth.Service
	CatalogService catalog.Service
	OffersService  offers.Service
	OrdersService  orders.Service
	ExportService  *export.Service
	UploadStore    *local.Store

	HTTPMetrics  *metrics.HTTPMetrics
	PromRegistry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var dbPinger, redisPinger db.Pinger
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	if deps.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	// Uploaded catalog images are served straight from disk.
	if cfg.Uploads.PublicPath != "" && cfg.Uploads.Dir != "" {
		fileServer := http.StripPrefix(cfg.Uploads.PublicPath, http.FileServer(http.Dir(cfg.Uploads.Dir)))
		r.Get(cfg.Uploads.PublicPath+"/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/brands", controllers.ListBrands(deps.CatalogService, logg))
		r.Get("/products", controllers.ListProducts(deps.CatalogService, logg))
		r.Get("/products/{idOrSlug}", controllers.GetProduct(deps.CatalogService, logg))
		r.Get("/weekly-offer/active", controllers.GetActiveOffer(deps.OffersService, logg))

		r.Post("/orders", controllers.CreateOrder(deps.OrdersService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		login := controllers.AuthLogin(deps.AuthService, cfg.JWT, logg)
		if deps.Redis != nil {
			r.With(middleware.LoginRateLimit(cfg.AuthRateLimit, deps.Redis, logg)).Post("/auth/login", login)
		} else {
			r.Post("/auth/login", login)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, deps.Sessions, logg))

			r.Post("/auth/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))

			r.Post("/brands", controllers.AdminCreateBrand(deps.CatalogService, logg))
			r.Put("/brands/{id}", controllers.AdminUpdateBrand(deps.CatalogService, logg))
			r.Delete("/brands/{id}", controllers.AdminDeleteBrand(deps.CatalogService, logg))

			r.Post("/products", controllers.AdminCreateProduct(deps.CatalogService, logg))
			r.Get("/products/{id}", controllers.AdminGetProduct(deps.CatalogService, logg))
			r.Put("/products/{id}", controllers.AdminUpdateProduct(deps.CatalogService, logg))
			r.Delete("/products/{id}", controllers.AdminDeleteProduct(deps.CatalogService, logg))

			r.Post("/uploads", controllers.AdminUploadImage(deps.UploadStore, cfg.Uploads.MaxUploadBytes(), logg))

			r.Get("/weekly-offer", controllers.AdminListOffers(deps.OffersService, logg))
			r.Post("/weekly-offer", controllers.AdminCreateOffer(deps.OffersService, logg))
			r.Get("/weekly-offer/{id}", controllers.AdminGetOffer(deps.OffersService, logg))
			r.Put("/weekly-offer/{id}", controllers.AdminUpdateOffer(deps.OffersService, logg))
			r.Delete("/weekly-offer/{id}", controllers.AdminDeleteOffer(deps.OffersService, logg))

			r.Get("/orders", controllers.AdminListOrders(deps.OrdersService, logg))
			r.Get("/orders/{id}/items", controllers.AdminGetOrderItems(deps.OrdersService, logg))
			r.Get("/orders/{id}", controllers.AdminGetOrder(deps.OrdersService, logg))
			r.Delete("/orders/{id}", controllers.AdminDeleteOrder(deps.OrdersService, logg))

			r.Get("/export/products", controllers.AdminExportProducts(deps.ExportService, logg))
		})
	})

	return r
}
