package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_admin/internal/config"
	"github.com/Skotchmaster/shop_admin/internal/httpserver"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/service"
	pkgconfig "github.com/Skotchmaster/shop_admin/pkg/config"
	pkgdb "github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/hash"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/shop_admin/pkg/middleware/logging"
	"github.com/Skotchmaster/shop_admin/pkg/mykafka"
	"github.com/Skotchmaster/shop_admin/pkg/search"
)

var version = "dev"

func main() {
	if err := godotenv.Load(config.EnvFile()); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if cfg.EnsureJWTSecret(uuid.NewString) {
		logger.Warn("jwt_secret_generated", "reason", "JWT_SECRET not set, tokens will not survive a restart")
	}
	pkgconfig.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, backend, err := pkgdb.OpenWithFallback(ctx, cfg.DatabaseURL, logger)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	r := repo.New(db)
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = r.Migrate(ctx)
	cancel()
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("db_ready", "backend", backend)

	m := metrics.NewRegistry()

	hasher := hash.New(cfg.PasswordHashing, cfg.BcryptCost)
	if hasher.Kind() == hash.KindUnavailable {
		logger.Warn("password_hashing_disabled", "reason", "PASSWORD_HASHING=disabled, password changes are refused")
	}
	creds := service.NewCredentialService(r, hasher, service.CredentialOptions{
		DefaultEmail:    cfg.AdminDefaultEmail,
		DefaultPassword: cfg.AdminDefaultPassword,
		Metrics:         m,
		OnTransition: func(from, to service.Tier, cause error) {
			logger.Error("credential_tier_changed", "from", from, "to", to, "error", cause)
		},
	})
	if err := creds.EnsureInitialized(context.Background()); err != nil {
		log.Fatalf("admin credential: %v", err)
	}

	pub, err := mykafka.New(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("kafka_unavailable", "error", err)
		pub = mykafka.Nop{}
	}

	var idx search.Index
	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		}, logger)
		if err != nil {
			logger.Warn("search_unavailable", "reason", "falling back to database search", "error", err)
		} else {
			idx = search.NewESIndex(es, cfg.ESIndex)
		}
	}

	uploads, err := service.NewUploadService(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	ping := func(ctx context.Context) error { return pkgdb.Ping(ctx, db) }
	logs := service.NewLogService(r, ping, backend)
	if err := logs.Seed(context.Background(), version); err != nil {
		logger.Warn("log_seed_failed", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger, m))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(cfg.BodyLimit))

	httpserver.Register(e, &httpserver.Deps{
		Customers: &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: r}},
		Catalog:   &httpserver.CatalogHTTP{Svc: service.NewCatalogService(r, idx, pub, m)},
		Orders:    &httpserver.OrderHTTP{Svc: service.NewOrderService(r, pub, m)},
		Uploads:   &httpserver.UploadHTTP{Svc: uploads},
		Analytics: &httpserver.AnalyticsHTTP{Svc: service.NewAnalyticsService(r, pub, m)},
		Logs:      &httpserver.LogHTTP{Svc: logs},
		Admin:     &httpserver.AdminHTTP{Creds: creds, JWTSecret: cfg.JWTAccessSecret},
		JWTSecret: cfg.JWTAccessSecret,
		Metrics:   m,
		Ready:     ping,
		UploadDir: uploads.Dir,
		CSRF: csrf.Middleware(csrf.Config{
			Secure:            cfg.IsProduction(),
			EnforceSameOrigin: cfg.IsProduction(),
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "store", creds.Tier(), "hashing", hasher.Kind().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if err := pub.Close(); err != nil {
		logger.Warn("kafka_close_failed", "error", err)
	}
	_ = pkgdb.Close(db)

	logger.Info("stopped")
}
