package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osintranet/internal/metrics"
	"osintranet/internal/middleware"
	"osintranet/internal/web"
)

const secret = "test-secret"

func token(t *testing.T, key string, roles []string, expires time.Time) string {
	t.Helper()
	claims := middleware.Claims{
		Name:  "Bookkeeper",
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/accounting", func(c *gin.Context) {
		name := ""
		if claims, ok := middleware.GetClaims(c); ok {
			name = claims.Name
		}
		c.String(http.StatusOK, "hello %s", name)
	})
	return router
}

func request(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounting", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	valid := token(t, secret, []string{"accounting"}, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + token(t, "other", []string{"accounting"}, time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, secret, []string{"accounting"}, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(newRouter(middleware.Auth(secret)), tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthStoresClaims(t *testing.T) {
	w := request(newRouter(middleware.Auth(secret)), "Bearer "+token(t, secret, nil, time.Now().Add(time.Hour)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello Bookkeeper", w.Body.String())
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	w := request(newRouter(middleware.Auth(""), middleware.RequireRole("accounting")), "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	router := newRouter(middleware.Auth(secret), middleware.RequireRole("accounting", "admin"))

	w := request(router, "Bearer "+token(t, secret, []string{"admin"}, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(router, "Bearer "+token(t, secret, []string{"calendar"}, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecoveryAnswersJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRecoveryRendersErrorPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", "text/html")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

func TestRequestID(t *testing.T) {
	router := newRouter(middleware.RequestID(), middleware.Logger())

	w := request(router, "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounting", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetrics(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	router := newRouter(middleware.Metrics(m))

	request(router, "")
	request(router, "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/accounting", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
