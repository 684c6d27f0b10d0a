package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWT(t *testing.T) jwt.Service {
	t.Helper()
	svc, err := jwt.NewJWTService("middleware-test-secret", "1h", "24h")
	require.NoError(t, err)
	return svc
}

func actorEcho(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"id": actor.ID, "role": string(actor.Role)})
}

func protectedRouter(jwtService jwt.Service, mws ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
	r.Use(AuthRequired)
	for _, mw := range mws {
		r.Use(mw)
	}
	r.Get("/me", actorEcho)
	r.Post("/leaves", actorEcho)
	return r
}

func TestAuthRequired(t *testing.T) {
	jwtService := newJWT(t)
	router := protectedRouter(jwtService)

	t.Run("access token sets actor", func(t *testing.T) {
		token, _, err := jwtService.GenerateAccessToken("user-1", "ana@example.com", user.RoleHR)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["id"])
		assert.Equal(t, "hr", body["role"])
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		token, _, err := jwtService.GenerateRefreshToken("user-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other, err := jwt.NewJWTService("some-other-secret", "1h", "24h")
		require.NoError(t, err)
		token, _, err := other.GenerateAccessToken("user-1", "ana@example.com", user.RoleAdmin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	handler := RequirePermission(user.PermissionUserManage)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role   user.Role
		status int
	}{
		{user.RoleAdmin, http.StatusNoContent},
		{user.RoleHR, http.StatusNoContent},
		{user.RoleEmployee, http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithActor(req.Context(), user.Actor{ID: "u", Role: tt.role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, tt.role)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimitByIP(t *testing.T) {
	handler := RateLimitByIP(NewKeyedRateLimiter(1, 2))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"))
}

func TestRateLimitByUser(t *testing.T) {
	handler := RateLimitByUser(NewKeyedRateLimiter(1, 1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if userID != "" {
			req = req.WithContext(WithActor(req.Context(), user.Actor{ID: userID, Role: user.RoleEmployee}))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusOK, send("b"))
	assert.Equal(t, http.StatusOK, send(""))
	assert.Equal(t, http.StatusOK, send(""))
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	limiter := NewKeyedRateLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.GetLimiter("10.0.0.1")
	now = now.Add(5 * time.Minute)
	limiter.GetLimiter("10.0.0.2")
	require.Equal(t, 2, limiter.Len())

	now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, limiter.EvictIdle(10*time.Minute))
	assert.Equal(t, 1, limiter.Len())

	// a key used again is not evicted
	limiter.GetLimiter("10.0.0.2")
	assert.Equal(t, 0, limiter.EvictIdle(10*time.Minute))

	now = now.Add(time.Hour)
	assert.Equal(t, 1, limiter.EvictIdle(10*time.Minute))
	assert.Equal(t, 0, limiter.Len())
}

const createdBody = `{"success":true,"data":{"id":"leave-1"}}`

func idempotentHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(createdBody))
	})
}

func idempotentRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves", nil)
	req.Header.Set(IdempotencyHeader, key)
	return req.WithContext(WithActor(req.Context(), user.Actor{ID: "user-1", Role: user.RoleEmployee}))
}

func TestIdempotency(t *testing.T) {
	cacheKey := idempotencyCacheKey("/api/v1/leaves", "user-1", "key-1")
	lockKey := cacheKey + ":lock"

	t.Run("first request runs handler and stores response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		var calls int
		handler := Idempotency(rdb)(idempotentHandler(&calls))

		stored, err := json.Marshal(cachedResponse{Status: http.StatusCreated, Body: json.RawMessage(createdBody)})
		require.NoError(t, err)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(true)
		mock.ExpectSet(cacheKey, stored, idempotencyResultTTL).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, idempotentRequest("key-1"))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, createdBody, rec.Body.String())
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retry replays stored response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		var calls int
		handler := Idempotency(rdb)(idempotentHandler(&calls))

		stored, _ := json.Marshal(cachedResponse{Status: http.StatusCreated, Body: json.RawMessage(createdBody)})
		mock.ExpectGet(cacheKey).SetVal(string(stored))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, idempotentRequest("key-1"))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "true", rec.Header().Get(IdempotencyReplayed))
		assert.JSONEq(t, createdBody, rec.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is told to wait", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		var calls int
		handler := Idempotency(rdb)(idempotentHandler(&calls))

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(false)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, idempotentRequest("key-1"))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "PROCESSING")
		assert.Equal(t, 0, calls)
	})

	t.Run("redis outage does not block the request", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		var calls int
		handler := Idempotency(rdb)(idempotentHandler(&calls))

		mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, idempotentRequest("key-1"))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("requests without key skip redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		var calls int
		handler := Idempotency(rdb)(idempotentHandler(&calls))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, idempotentRequest(""))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil client disables the middleware", func(t *testing.T) {
		var calls int
		handler := Idempotency(nil)(idempotentHandler(&calls))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, idempotentRequest("key-1"))
		assert.Equal(t, 1, calls)
	})
}

func TestMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/leaves/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaves/abc", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
