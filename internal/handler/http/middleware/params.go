package middleware

import (
	"net/http"

	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// UUIDParam answers 404 when the named route parameter is not a UUID, the
// same response an unknown id gets, so malformed ids never reach the database.
func UUIDParam(name, notFoundMessage string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validator.IsValidUUID(chi.URLParam(r, name)) {
				response.NotFound(w, notFoundMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
