package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/config"
	appHTTP "github.com/ezleave/ezleave-backend-go/internal/handler/http"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/cron"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/jwt"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/metrics"
	"github.com/ezleave/ezleave-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/ezleave/ezleave-backend-go/internal/service/auth"
	serviceDepartment "github.com/ezleave/ezleave-backend-go/internal/service/department"
	serviceLeave "github.com/ezleave/ezleave-backend-go/internal/service/leave"
	serviceUser "github.com/ezleave/ezleave-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.ParseLogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ezleave"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("Error applying schema", "error", err)
		os.Exit(1)
	}
	if err := metrics.RegisterPoolCollector(db.Pool); err != nil {
		slog.Warn("Pool metrics not registered", "error", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unavailable, idempotency keys and department cache disabled", "addr", cfg.Redis.Addr, "error", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveCommentRepo := postgresql.NewLeaveCommentRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		slog.Error("Error creating JWT service", "error", err)
		os.Exit(1)
	}

	leaveService := serviceLeave.NewLeaveService(txManager, leaveRequestRepo, leaveCommentRepo, leaveBalanceRepo, userRepo)
	authService := serviceAuth.NewAuthService(txManager, userRepo, departmentRepo, leaveBalanceRepo, refreshTokenRepo, JWTService, cfg.Leave.DefaultAllocation)
	userService := serviceUser.NewUserService(txManager, userRepo, departmentRepo, leaveBalanceRepo, leaveRequestRepo)
	departmentService := serviceDepartment.NewDepartmentService(departmentRepo, userRepo, rdb)

	limiters := appHTTP.NewRateLimiters(cfg)
	router := appHTTP.NewRouter(cfg, logger, JWTService, rdb, limiters, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService),
		Leave:      appHTTP.NewLeaveHandler(leaveService),
		User:       appHTTP.NewUserHandler(userService, leaveService),
		Department: appHTTP.NewDepartmentHandler(departmentService),
	})

	scheduler := cron.NewScheduler()
	cron.Register(scheduler,
		cron.NewLeaveJobs(leaveRequestRepo),
		cron.NewTokenJobs(refreshTokenRepo),
		cron.NewLimiterJobs(cron.LimiterIdleTTL, limiters.Auth, limiters.User),
	)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
