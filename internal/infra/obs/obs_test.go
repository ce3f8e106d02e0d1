package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := Middleware{}
	r := gin.New()
	r.Use(mw.RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestReadyz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	failing := HealthHandlers{Checks: map[string]Check{
		"mongo": func(context.Context) error { return errors.New("mongo down") },
		"redis": func(context.Context) error { return nil },
	}}
	r := gin.New()
	r.GET("/readyz", failing.Readyz)
	r.GET("/livez", failing.Livez)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "mongo down")
	assert.NotContains(t, w.Body.String(), "redis")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggerLevels(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))

	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "slug", "villa-a")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"service":"villafinder"`)
	assert.Contains(t, buf.String(), `"slug":"villa-a"`)
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	mw := Middleware{Logger: newLogger(&buf, "prod", "info")}
	r := gin.New()
	r.Use(mw.RequestID(), mw.LoggerMiddleware())
	r.GET("/livez", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/villas/:slug", func(c *gin.Context) {
		_ = c.Error(errors.New("store down"))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Empty(t, buf.String())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/villas/pool-a", nil))
	line := buf.String()
	assert.Contains(t, line, `"level":"ERROR"`)
	assert.Contains(t, line, `"route":"/api/v1/villas/:slug"`)
	assert.Contains(t, line, `"path":"/api/v1/villas/pool-a"`)
	assert.Contains(t, line, "store down")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Contains(t, buf.String(), `"route":"unmatched"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
