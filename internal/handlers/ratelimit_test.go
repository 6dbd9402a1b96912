package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestLimiterIsPerIP(t *testing.T) {
	rl := NewIPRateLimiter(t.Context(), rate.Limit(0.0001), 1)

	assert.True(t, rl.limiter("10.0.0.1").Allow())
	assert.False(t, rl.limiter("10.0.0.1").Allow())
	assert.True(t, rl.limiter("10.0.0.2").Allow())
}

func TestSweepDropsIdleEntries(t *testing.T) {
	rl := NewIPRateLimiter(t.Context(), rate.Inf, 1)
	rl.limiter("10.0.0.1")
	rl.limiter("10.0.0.2")
	rl.limiters["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)

	rl.sweep(time.Now().Add(-limiterIdle))
	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Contains(t, rl.limiters, "10.0.0.2")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(r))

	r.RemoteAddr = "192.0.2.9"
	assert.Equal(t, "192.0.2.9", clientIP(r))
}
