package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"truefit-backend-go/internal/auth"
	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticRoles map[string]models.Role

func (r staticRoles) Role(_ context.Context, email string) (models.Role, error) {
	if email == "broken@x.com" {
		return "", errors.New("redis down")
	}
	role, ok := r[email]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrUserNotFound, email)
	}
	return role, nil
}

func (r staticRoles) Invalidate(context.Context, string) {}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	jwtManager, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtManager, staticRoles{
		"admin@x.com":  models.RoleAdmin,
		"member@x.com": models.RoleMember,
	}, zap.NewNop())

	r := gin.New()
	r.GET("/me", m.VerifyToken(), func(c *gin.Context) {
		c.String(http.StatusOK, UserEmail(c))
	})
	r.GET("/admin", m.VerifyToken(), m.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, jwtManager
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyToken(t *testing.T) {
	r, jwtManager := newAuthRouter(t)
	token, _, err := jwtManager.Issue("Member@X.com", "M")
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "member@x.com", w.Body.String())

	w = do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized Access")

	w = do(r, http.MethodGet, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, jwtManager := newAuthRouter(t)
	tokenFor := func(email string) string {
		token, _, err := jwtManager.Issue(email, "")
		require.NoError(t, err)
		return token
	}

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/admin", tokenFor("admin@x.com")).Code)

	w := do(r, http.MethodGet, "/admin", tokenFor("member@x.com"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Forbidden Access")

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", tokenFor("stranger@x.com")).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/admin", tokenFor("broken@x.com")).Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), RecoveryMiddleware(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-1", w.Body.String())

	w = do(r, http.MethodGet, "/", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, zap.NewNop())
	r := gin.New()
	r.POST("/jwt", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < rateLimitBurst; i++ {
		require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/jwt", "").Code, "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/jwt", "").Code)
}

func TestIPRateLimiterIgnoresForwardedForFromUntrustedClients(t *testing.T) {
	r, err := NewEngine(EngineConfig{Logger: zap.NewNop()})
	require.NoError(t, err)
	limiter := NewIPRateLimiter(1, zap.NewNop())
	r.POST("/jwt", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/jwt", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, rateLimitBurst, allowed)
	assert.Contains(t, limiter.visitors, "203.0.113.7")
	assert.Len(t, limiter.visitors, 1)
}

func TestEngineHonoursTrustedProxies(t *testing.T) {
	r, err := NewEngine(EngineConfig{Logger: zap.NewNop(), TrustedProxies: []string{"10.0.0.0/8"}})
	require.NoError(t, err)
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.9", w.Body.String())

	_, err = NewEngine(EngineConfig{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}

func TestIPRateLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Now()
	limiter := NewIPRateLimiter(60, zap.NewNop())
	limiter.now = func() time.Time { return now }
	limiter.getLimiter("10.0.0.1")

	now = now.Add(visitorIdleAfter + time.Second)
	limiter.getLimiter("10.0.0.2")
	limiter.evictIdle()

	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}

func TestMetricsExposition(t *testing.T) {
	metrics := NewMetrics()
	r := gin.New()
	r.Use(metrics.Handler())
	r.GET("/classes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(metrics.Exposition()))

	do(r, http.MethodGet, "/classes/abc", "")
	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `truefit_http_requests_total{method="GET",route="/classes/:id",status="200"} 1`)
}

func TestEngineCountsRecoveredPanics(t *testing.T) {
	metrics := NewMetrics()
	r, err := NewEngine(EngineConfig{Logger: zap.NewNop(), Metrics: metrics})
	require.NoError(t, err)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/metrics", gin.WrapH(metrics.Exposition()))

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/panic", "").Code)

	body, err := io.ReadAll(do(r, http.MethodGet, "/metrics", "").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `truefit_http_requests_total{method="GET",route="/panic",status="500"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("http://a.test, http://b.test"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://b.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://b.test", w.Header().Get("Access-Control-Allow-Origin"))
}
