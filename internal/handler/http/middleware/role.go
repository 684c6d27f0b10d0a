package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
)

// RequirePermission lets the request through only when the actor's role grants p.
// A request without an actor is treated as forbidden, not unauthenticated; Auth runs first.
func RequirePermission(p user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if ok && user.HasPermission(actor.Role, p) {
				next.ServeHTTP(w, r)
				return
			}

			slog.DebugContext(r.Context(), "Permission denied",
				"permission", string(p), "role", string(actor.Role), "path", r.URL.Path)
			response.Forbidden(w, "You do not have permission to perform this action")
		})
	}
}
