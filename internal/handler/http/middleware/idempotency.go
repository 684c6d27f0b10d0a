package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader     = "Idempotency-Key"
	IdempotencyReplayed   = "Idempotent-Replayed"
	idempotencyLockTTL    = 30 * time.Second
	idempotencyResultTTL  = 24 * time.Hour
	maxIdempotencyKeySize = 255
)

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

func idempotencyCacheKey(path, userID, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", path, userID, key)
}

// Idempotency replays the stored response when a POST or PUT is retried with the
// same Idempotency-Key. A concurrent duplicate gets 409 PROCESSING. Only
// responses below 500 are stored, so server failures can be retried. A nil
// client disables the middleware.
func Idempotency(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempKey := r.Header.Get(IdempotencyHeader)
			if idempKey == "" || (r.Method != http.MethodPost && r.Method != http.MethodPut) {
				next.ServeHTTP(w, r)
				return
			}
			if len(idempKey) > maxIdempotencyKeySize {
				response.BadRequest(w, "Idempotency-Key is too long", nil)
				return
			}

			var userID string
			if actor, ok := ActorFromContext(r.Context()); ok {
				userID = actor.ID
			}

			ctx := r.Context()
			cacheKey := idempotencyCacheKey(r.URL.Path, userID, idempKey)
			lockKey := cacheKey + ":lock"

			if val, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
				var cached cachedResponse
				if err := json.Unmarshal(val, &cached); err == nil {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set(IdempotencyReplayed, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
			} else if !errors.Is(err, redis.Nil) {
				slog.Warn("idempotency lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
			if err != nil {
				slog.Warn("idempotency lock failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !isNew {
				writeProcessing(w)
				return
			}

			var buf bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < http.StatusInternalServerError && json.Valid(buf.Bytes()) {
				data, err := json.Marshal(cachedResponse{Status: status, Body: buf.Bytes()})
				if err == nil {
					if err := rdb.Set(ctx, cacheKey, data, idempotencyResultTTL).Err(); err != nil {
						slog.Warn("idempotency store failed", "error", err)
					}
				}
			}

			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				slog.Warn("idempotency unlock failed", "error", err)
			}
		})
	}
}

func writeProcessing(w http.ResponseWriter) {
	response.Conflict(w, "PROCESSING", "A request with this Idempotency-Key is still being processed")
}
