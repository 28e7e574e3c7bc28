package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aromaten/aromaten-backend/api/routes"
	"github.com/aromaten/aromaten-backend/internal/auth"
	"github.com/aromaten/aromaten-backend/internal/catalog"
	"github.com/aromaten/aromaten-backend/internal/export"
	"github.com/aromaten/aromaten-backend/internal/mailer"
	"github.com/aromaten/aromaten-backend/internal/offers"
	"github.com/aromaten/aromaten-backend/internal/orders"
	"github.com/aromaten/aromaten-backend/pkg/auth/session"
	"github.com/aromaten/aromaten-backend/pkg/config"
	"github.com/aromaten/aromaten-backend/pkg/db"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/metrics"
	"github.com/aromaten/aromaten-backend/pkg/migrate"
	redisclient "github.com/aromaten/aromaten-backend/pkg/redis"
	"github.com/aromaten/aromaten-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      auth.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	offersService, err := offers.NewService(offers.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	var confirmationSender orders.ConfirmationSender
	if cfg.Mail.Enabled() {
		resendClient, err := mailer.NewResendClient(cfg.Mail, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create mail client", err)
			os.Exit(1)
		}
		orderMailer, err := mailer.NewOrderMailer(resendClient, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create order mailer", err)
			os.Exit(1)
		}
		confirmationSender = orderMailer
	} else {
		logg.Warn(context.Background(), "mail disabled, order confirmations will not be sent")
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, logg, confirmationSender, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	exportService, err := export.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}

	uploadStore, err := local.NewStore(cfg.Uploads, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload store", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Sessions:       sessionManager,
			AuthService:    authService,
			CatalogService: catalogService,
			OffersService:  offersService,
			OrdersService:  ordersService,
			ExportService:  exportService,
			UploadStore:    uploadStore,
			HTTPMetrics:    httpMetrics,
			PromRegistry:   registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
