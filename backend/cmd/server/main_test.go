package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"coursehub/backend/pkg/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{Port: "8000", RequestTimeout: 10 * time.Second}
	handler := http.NotFoundHandler()

	srv := newHTTPServer(cfg, handler)

	assert.Equal(t, ":8000", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.WriteTimeout)
	assert.NotZero(t, srv.ReadHeaderTimeout)
}

func TestNewHTTPServer_ServesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := newHTTPServer(&config.Config{Port: "0"}, router)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
