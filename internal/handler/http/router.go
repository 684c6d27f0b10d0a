package http

import (
	"log/slog"
	"net/http"

	"github.com/ezleave/ezleave-backend-go/internal/config"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/handler/http/middleware"
	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/jwt"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Handlers struct {
	Auth       AuthHandler
	Leave      LeaveHandler
	User       UserHandler
	Department DepartmentHandler
}

// RateLimiters are built outside the router so housekeeping can evict idle buckets.
type RateLimiters struct {
	Auth *middleware.KeyedRateLimiter
	User *middleware.KeyedRateLimiter
}

func NewRateLimiters(cfg *config.Config) RateLimiters {
	return RateLimiters{
		Auth: middleware.NewKeyedRateLimiter(rate.Limit(cfg.RateLimit.AuthPerSecond), cfg.RateLimit.AuthBurst),
		User: middleware.NewKeyedRateLimiter(rate.Limit(cfg.RateLimit.UserPerSecond), cfg.RateLimit.UserBurst),
	}
}

// NewRouter wires every route. rdb may be nil, which turns off Idempotency-Key handling.
func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, rdb *redis.Client, limiters RateLimiters, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Link", middleware.IdempotencyReplayed},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.ParseLogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.Metrics)

	r.Handle("/metrics", metrics.Handler())

	authLimit := middleware.RateLimitByIP(limiters.Auth)
	userLimit := middleware.RateLimitByUser(limiters.User)
	idempotent := middleware.Idempotency(rdb)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/register", h.Auth.Register)
			r.With(authLimit).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Use(userLimit)

				r.Get("/me", h.Auth.Me)
				r.Put("/profile", h.Auth.UpdateProfile)
				r.Put("/change-password", h.Auth.ChangePassword)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(userLimit)

			r.Route("/leaves", func(r chi.Router) {
				r.With(idempotent).Post("/", h.Leave.Submit)
				r.Get("/", h.Leave.List)
				r.Get("/stats/summary", h.Leave.Stats)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id", "Leave request not found"))
					r.Get("/", h.Leave.Get)
					r.Post("/comments", h.Leave.AddComment)

					r.Group(func(r chi.Router) {
						r.Use(idempotent)
						r.Put("/cancel", h.Leave.Cancel)

						r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Put("/approve", h.Leave.Approve)
						r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Put("/reject", h.Leave.Reject)
					})
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionUserViewAll)).Get("/", h.User.List)
				r.With(middleware.RequirePermission(user.PermissionUserViewAll)).Get("/stats/overview", h.User.Overview)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id", "User not found"))
					r.Get("/", h.User.Get)
					r.Put("/", h.User.Update)
					r.With(middleware.RequirePermission(user.PermissionUserDelete)).Delete("/", h.User.Deactivate)
					r.Get("/leaves", h.User.Leaves)
					r.Get("/balance", h.User.Balance)
					r.With(middleware.RequirePermission(user.PermissionUserManage)).Put("/balance", h.User.UpdateBalance)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.List)
				r.With(middleware.RequirePermission(user.PermissionDepartmentManage)).Post("/", h.Department.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id", "Department not found"))
					r.Get("/", h.Department.Get)
					r.Get("/stats", h.Department.Stats)
					r.With(middleware.RequirePermission(user.PermissionUserViewAll)).Get("/users", h.Department.Users)

					// Admin and HR
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionDepartmentManage))
						r.Put("/", h.Department.Update)
						r.With(middleware.RequirePermission(user.PermissionDepartmentDelete)).Delete("/", h.Department.Delete)
					})
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
