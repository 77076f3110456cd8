package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-share-api/authz"
	"food-share-api/config"
	"food-share-api/handlers"
	"food-share-api/middleware"
	"food-share-api/notify"
	"food-share-api/routes"
	"food-share-api/services"
	"food-share-api/session"
	"food-share-api/statemachine"
	"food-share-api/store"
	"food-share-api/uploads"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := config.NewLogger(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := config.OpenDB(cfg.DBPath)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := config.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var courier services.Courier
	if cfg.AMQPURL != "" {
		conn, err := notify.Dial(ctx, cfg.AMQPURL, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Warn("close rabbitmq", slog.String("error", err.Error()))
			}
		}()
		amqpCourier, err := notify.NewAMQPCourier(conn.Channel, cfg.NotifyExchange, logger)
		if err != nil {
			return err
		}
		courier = amqpCourier
	} else {
		logger.Warn("AMQP_URL not set, temporary passwords will be written to the log")
		courier = notify.NewLogCourier(logger)
	}

	users := store.NewUserStore(db)
	variant, err := statemachine.ParseVariant(cfg.LifecycleVariant)
	if err != nil {
		return err
	}
	machine, err := statemachine.New(variant)
	if err != nil {
		return err
	}
	identity := services.NewIdentityService(users, services.NewBcryptHasher(cfg.BcryptCost), courier, logger,
		services.WithRegistrationRoles(machine.Roles()))
	if cfg.AdminPhone != "" {
		if _, err := identity.SeedAdmin(ctx, cfg.AdminPhone, cfg.AdminPassword); err != nil {
			return err
		}
	} else {
		logger.Warn("ADMIN_PHONE not set, no administrator account seeded")
	}

	lifecycle := services.NewLifecycleService(store.NewPostStore(db), users, machine, logger)

	codec, err := session.NewTokenCodec([]byte(cfg.SessionSecret))
	if err != nil {
		return err
	}
	sessions := session.NewManager(session.NewRedisStore(rdb, ""), codec, cfg.SessionTTL)

	saver, err := uploads.NewSaver(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		return err
	}
	authorizer, err := authz.NewAuthorizer(ctx)
	if err != nil {
		return err
	}

	h := handlers.New(handlers.Deps{
		Identity:     identity,
		Lifecycle:    lifecycle,
		Sessions:     sessions,
		Uploads:      saver,
		Limiter:      middleware.NewAttemptLimiter(rdb, "", cfg.LoginMaxAttempts, cfg.LoginWindow),
		CookieSecure: cfg.CookieSecure,
		Logger:       logger,
	})
	router := routes.NewRouter(routes.Options{
		Handler:    h,
		Sessions:   sessions,
		Authorizer: authorizer,
		Machine:    machine,
		UploadDir:  cfg.UploadDir,
		Logger:     logger,
	})
	router.MaxMultipartMemory = cfg.UploadMaxBytes

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("food share api listening",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("variant", string(variant)),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	logger.Info("shutting down food share api...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
