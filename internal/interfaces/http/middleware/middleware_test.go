package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type enforceFunc func(role authorization.UserRole, path, method string) (bool, error)

func (f enforceFunc) Enforce(role authorization.UserRole, path, method string) (bool, error) {
	return f(role, path, method)
}

func serve(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireActor(t *testing.T) {
	engine := gin.New()
	var seen authorization.Actor
	engine.GET("/whoami", NewActorMiddleware(logger.NewNop()).RequireActor(), func(c *gin.Context) {
		seen, _ = GetActor(c)
		c.Status(http.StatusOK)
	})

	w := serve(engine, http.MethodGet, "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(engine, http.MethodGet, "/whoami", map[string]string{HeaderActorID: "o-1", HeaderActorRole: "Officer"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, authorization.Actor{ID: "o-1", Role: authorization.RoleOfficer}, seen)

	w = serve(engine, http.MethodGet, "/whoami", map[string]string{HeaderActorID: "u-1", HeaderActorRole: "root"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, authorization.RoleCitizen, seen.Role)
}

func TestRequireRouteAccess(t *testing.T) {
	enforcer := enforceFunc(func(role authorization.UserRole, path, method string) (bool, error) {
		switch {
		case role == authorization.RoleAdmin && path == "/admin/stats":
			return true, nil
		case path == "/broken":
			return false, errors.New("policy unavailable")
		}
		return false, nil
	})

	engine := gin.New()
	engine.Use(NewActorMiddleware(logger.NewNop()).RequireActor())
	engine.Use(NewAuthorizationMiddleware(enforcer, logger.NewNop()).RequireRouteAccess())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	engine.GET("/admin/stats", ok)
	engine.GET("/broken", ok)

	tests := []struct {
		name string
		path string
		role string
		want int
	}{
		{"admin allowed", "/admin/stats", "admin", http.StatusOK},
		{"citizen denied", "/admin/stats", "citizen", http.StatusForbidden},
		{"enforcer failure", "/broken", "admin", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, http.MethodGet, tt.path, map[string]string{HeaderActorID: "a-1", HeaderActorRole: tt.role})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(client, 2, time.Minute, logger.NewNop())
	fixed := time.Date(2026, 4, 1, 10, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	engine := gin.New()
	engine.Use(NewActorMiddleware(logger.NewNop()).RequireActor())
	engine.POST("/complaints", limiter.Limit(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	citizen := map[string]string{HeaderActorID: "c-1"}
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/complaints", citizen).Code)
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/complaints", citizen).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/complaints", citizen).Code)

	other := map[string]string{HeaderActorID: "c-2"}
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/complaints", other).Code)

	fixed = fixed.Add(time.Minute)
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/complaints", citizen).Code)

	mr.Close()
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/complaints", citizen).Code, "redis outage must fail open")
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNop()))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(engine, http.MethodGet, "/panic", map[string]string{"Authorization": "Bearer secret"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://portal.example.gov"}))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, http.MethodOptions, "/health", map[string]string{"Origin": "https://portal.example.gov"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portal.example.gov", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(engine, http.MethodGet, "/health", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
