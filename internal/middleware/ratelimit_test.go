package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
)

type fakeRateCounter struct {
	counts  map[string]int64
	incrErr error
	expired map[string]time.Duration
}

func newFakeRateCounter() *fakeRateCounter {
	return &fakeRateCounter{
		counts:  make(map[string]int64),
		expired: make(map[string]time.Duration),
	}
}

func (f *fakeRateCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.incrErr != nil {
		cmd.SetErr(f.incrErr)
		return cmd
	}
	f.counts[key]++
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeRateCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expired[key] = expiration
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func newRateLimitRouter(counter RateCounter, cfg config.RateLimitConfig, max int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/limited",
		RateLimit(counter, cfg, "test", max, zerolog.Nop()),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	return router
}

func hitLimited(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	counter := newFakeRateCounter()
	router := newRateLimitRouter(counter, config.RateLimitConfig{Window: 15 * time.Minute}, 2)

	for i := 0; i < 2; i++ {
		if rec := hitLimited(router); rec.Code != http.StatusOK {
			t.Fatalf("request %d inside budget: got %d want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := hitLimited(router)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over budget: got %d want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimit_WindowSetOnFirstHit(t *testing.T) {
	counter := newFakeRateCounter()
	window := 15 * time.Minute
	router := newRateLimitRouter(counter, config.RateLimitConfig{Window: window}, 5)

	hitLimited(router)
	hitLimited(router)

	if len(counter.expired) != 1 {
		t.Fatalf("window must be set exactly once, got %d Expire calls", len(counter.expired))
	}
	for _, ttl := range counter.expired {
		if ttl != window {
			t.Fatalf("window ttl: got %v want %v", ttl, window)
		}
	}
}

func TestRateLimit_FailsOpenOnCounterError(t *testing.T) {
	counter := newFakeRateCounter()
	counter.incrErr = errors.New("redis down")
	router := newRateLimitRouter(counter, config.RateLimitConfig{Window: time.Minute}, 1)

	for i := 0; i < 3; i++ {
		if rec := hitLimited(router); rec.Code != http.StatusOK {
			t.Fatalf("fail-open request %d: got %d want %d", i+1, rec.Code, http.StatusOK)
		}
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	counter := newFakeRateCounter()
	router := newRateLimitRouter(counter, config.RateLimitConfig{Disabled: true, Window: time.Minute}, 1)

	for i := 0; i < 3; i++ {
		if rec := hitLimited(router); rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter request %d: got %d", i+1, rec.Code)
		}
	}
	if len(counter.counts) != 0 {
		t.Fatalf("disabled limiter must not touch the counter")
	}
}
