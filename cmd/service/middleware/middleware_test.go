package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/app/core"
	"github.com/explainium/explainium/app/response"
)

func TestUploadLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(response.NewResponse())
	engine.POST("/upload", UploadLimit(0, 0), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestUploadLimitBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(response.NewResponse())
	engine.POST("/upload", UploadLimit(1, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestUploadLimitPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(response.NewResponse())
	engine.POST("/upload", UploadLimit(1, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = addr
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))
	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}

func TestApiMetricsPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := core.NewMetrics("explainium", "middleware_test")

	engine := gin.New()
	engine.Use(ApiMetrics(m))
	engine.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.GET("/bad", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})

	do := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/ok"))
	assert.Equal(t, http.StatusBadRequest, do("/bad"))
	// unmatched routes still pass through the middleware
	assert.Equal(t, http.StatusNotFound, do("/nope"))
}
