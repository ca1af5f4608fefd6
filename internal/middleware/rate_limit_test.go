package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterDisabledWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 1})
	router.GET("/ping", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterDefaultsKeyPrefix(t *testing.T) {
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 10})
	assert.Equal(t, "ratelimit", limiter.config.KeyPrefix)
}
