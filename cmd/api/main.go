package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	adminctrl "github.com/adityapratama/shopeasy-backend/api/controllers/admin"
	authctrl "github.com/adityapratama/shopeasy-backend/api/controllers/auth"
	cartctrl "github.com/adityapratama/shopeasy-backend/api/controllers/cart"
	catalogctrl "github.com/adityapratama/shopeasy-backend/api/controllers/catalog"
	checkoutctrl "github.com/adityapratama/shopeasy-backend/api/controllers/checkout"
	healthctrl "github.com/adityapratama/shopeasy-backend/api/controllers/health"
	mediactrl "github.com/adityapratama/shopeasy-backend/api/controllers/media"
	orderctrl "github.com/adityapratama/shopeasy-backend/api/controllers/orders"
	sellerctrl "github.com/adityapratama/shopeasy-backend/api/controllers/seller"
	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/api/routes"
	authinternal "github.com/adityapratama/shopeasy-backend/internal/auth"
	"github.com/adityapratama/shopeasy-backend/internal/cart"
	"github.com/adityapratama/shopeasy-backend/internal/catalog"
	"github.com/adityapratama/shopeasy-backend/internal/checkout"
	"github.com/adityapratama/shopeasy-backend/internal/media"
	"github.com/adityapratama/shopeasy-backend/internal/orders"
	"github.com/adityapratama/shopeasy-backend/internal/stores"
	"github.com/adityapratama/shopeasy-backend/internal/users"
	pkgauth "github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/auth/session"
	"github.com/adityapratama/shopeasy-backend/pkg/config"
	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/metrics"
	"github.com/adityapratama/shopeasy-backend/pkg/migrate"
	pkgredis "github.com/adityapratama/shopeasy-backend/pkg/redis"
	"github.com/adityapratama/shopeasy-backend/pkg/security"
	"github.com/adityapratama/shopeasy-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "shopeasy-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := context.Background()

	gdb, err := db.New(cfg.DB)
	if err != nil {
		logg.Error(ctx, "database unavailable", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.AutoMigrate {
		sqlDB, err := gdb.DB()
		if err != nil {
			logg.Error(ctx, "unwrapping sql.DB", err)
			os.Exit(1)
		}
		if err := migrate.Up(ctx, sqlDB); err != nil {
			logg.Error(ctx, "auto migrate failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "migrations applied")
	}

	redisClient, err := pkgredis.New(cfg.Redis)
	if err != nil {
		logg.Error(ctx, "redis unavailable", err)
		os.Exit(1)
	}

	tokens, err := pkgauth.NewTokenManager(cfg.JWT)
	if err != nil {
		logg.Error(ctx, "token manager setup failed", err)
		os.Exit(1)
	}
	sessions, err := session.NewManager(redisClient, cfg.JWT.RefreshTokenTTL())
	if err != nil {
		logg.Error(ctx, "session manager setup failed", err)
		os.Exit(1)
	}
	hasher := security.NewHasher(cfg.Password)

	mediaStore, err := storage.NewLocalStore(cfg.Media)
	if err != nil {
		logg.Error(ctx, "media store setup failed", err)
		os.Exit(1)
	}

	reg := metrics.NewRegistry()

	userRepo := users.NewRepository(gdb)
	storeRepo := stores.NewRepository(gdb)
	productRepo := catalog.NewProductRepository(gdb)
	categoryRepo := catalog.NewCategoryRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)

	storeSvc, err := stores.NewService(storeRepo)
	if err != nil {
		fatal(logg, ctx, "store service", err)
	}
	userSvc, err := users.NewService(userRepo, storeSvc, hasher, gdb)
	if err != nil {
		fatal(logg, ctx, "user service", err)
	}
	catalogSvc, err := catalog.NewService(productRepo, categoryRepo, storeSvc)
	if err != nil {
		fatal(logg, ctx, "catalog service", err)
	}
	cartSvc, err := cart.NewService(cartRepo, productRepo, reg)
	if err != nil {
		fatal(logg, ctx, "cart service", err)
	}
	checkoutSvc, err := checkout.NewService(checkout.Deps{
		Carts:    cartRepo,
		Products: productRepo,
		Orders:   orderRepo,
		Users:    userRepo,
		DB:       gdb,
		Pricing:  cfg.Checkout,
		Metrics:  reg,
	})
	if err != nil {
		fatal(logg, ctx, "checkout service", err)
	}
	orderSvc, err := orders.NewService(orderRepo)
	if err != nil {
		fatal(logg, ctx, "order service", err)
	}
	authSvc, err := authinternal.NewService(userRepo, hasher, tokens, sessions)
	if err != nil {
		fatal(logg, ctx, "auth service", err)
	}
	mediaSvc, err := media.NewService(mediaStore, catalogSvc, storeSvc)
	if err != nil {
		fatal(logg, ctx, "media service", err)
	}

	handler := routes.New(routes.Deps{
		Logger:    logg,
		Tokens:    tokens,
		Metrics:   reg,
		RateLimit: middleware.NewAuthRateLimiter(redisClient, cfg.AuthRateLimit, logg),
		Auth:      authctrl.NewController(authSvc, logg),
		Cart:      cartctrl.NewController(cartSvc, logg),
		Catalog:   catalogctrl.NewController(catalogSvc, logg),
		Checkout:  checkoutctrl.NewController(checkoutSvc, logg),
		Orders:    orderctrl.NewController(orderSvc, logg),
		Seller:    sellerctrl.NewController(catalogSvc, storeSvc, mediaSvc, logg),
		Admin:     adminctrl.NewController(userSvc, orderSvc, catalogSvc, logg),
		Media:     mediactrl.NewController(mediaSvc, logg),
		Health:    healthctrl.NewController(gdb, redisClient),
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
}

func fatal(logg *logger.Logger, ctx context.Context, what string, err error) {
	logg.Error(ctx, what+" setup failed", err)
	os.Exit(1)
}
