package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devdrawer/internal/config"
	"devdrawer/internal/db"
	transport "devdrawer/internal/http"
	"devdrawer/internal/http/handlers"
	"devdrawer/internal/http/middleware"
	"devdrawer/internal/mail"
	"devdrawer/internal/repo"
	"devdrawer/internal/repo/memory"
	"devdrawer/internal/services"
	"github.com/gin-gonic/gin"
)

type stores struct {
	users    services.UserStore
	planners services.PlannerStore
	checks   map[string]handlers.Pinger
	shutdown func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)
	slog.SetDefault(logger)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer st.shutdown()

	if cfg.SeedDemo {
		created, err := db.EnsureDemoUser(ctx, st.users, st.planners, db.SeedUser{
			Username: "demo",
			Email:    "demo@devdrawer.local",
			Password: cfg.DemoPassword,
		}, cfg.BcryptCost)
		if err != nil {
			logger.Error("failed to seed demo user", "error", err)
			os.Exit(1)
		}
		if created {
			logger.Info("demo user created", "username", "demo")
		}
	}

	authService := services.NewAuthService(
		st.users,
		services.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL),
		mail.NewMailer(newMailTransport(cfg, logger), cfg.FromEmail, cfg.AppURL),
		logger,
		cfg.BcryptCost,
	)

	router := transport.NewRouter(transport.Dependencies{
		Config:         cfg,
		AuthService:    authService,
		ProfileService: services.NewProfileService(st.users, logger, cfg.BcryptCost),
		PlannerService: services.NewPlannerService(st.planners, logger),
		HealthChecks:   st.checks,
		Logger:         logger,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitPerMinute),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}

	authService.Wait()
	logger.Info("http server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return &stores{
			users:    memory.NewUserStore(),
			planners: memory.NewPlannerStore(),
			checks:   map[string]handlers.Pinger{},
			shutdown: func() {},
		}, nil
	}

	pgConn, err := db.Connect(ctx, cfg.DBURL, db.PoolOptions{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnIdleTime: cfg.DBMaxConnIdle,
	})
	if err != nil {
		return nil, err
	}

	gormConn, err := db.ConnectGorm(ctx, cfg.DBURL, !cfg.IsProd())
	if err != nil {
		pgConn.Close()
		return nil, err
	}

	if cfg.RunMigrations {
		sqlDB, err := gormConn.SQLDB()
		if err == nil {
			err = db.Migrate(ctx, sqlDB)
		}
		if err != nil {
			gormConn.Close()
			pgConn.Close()
			return nil, err
		}
		logger.Info("migrations applied")
	}

	return &stores{
		users:    repo.NewUserRepo(pgConn.Pool, cfg.RequestTimeout),
		planners: repo.NewPlannerRepo(gormConn.DB, cfg.RequestTimeout),
		checks: map[string]handlers.Pinger{
			"postgres": pgConn,
			"gorm":     gormConn,
		},
		shutdown: func() {
			gormConn.Close()
			pgConn.Close()
		},
	}, nil
}

func newMailTransport(cfg *config.Config, logger *slog.Logger) mail.Transport {
	if cfg.ResendAPIKey == "" {
		logger.Warn("RESEND_API_KEY not set; emails are logged instead of sent")
		return mail.NewLogTransport(logger)
	}
	return mail.NewResendTransport(cfg.ResendAPIKey)
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "prod" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
