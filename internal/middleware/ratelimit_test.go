package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/employee-task-tracker/internal/config"
)

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl-test",
	}
}

func rateLimitedRequest(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(passThrough)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec
}

func TestTokenBucketExhaustion(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	mw := NewTokenBucket(testRateLimitConfig(), rdb)

	for i := 0; i < 2; i++ {
		rec := rateLimitedRequest(t, mw)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
	}

	rec := rateLimitedRequest(t, mw)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after bucket drained, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Errorf("expected a Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected 0 remaining, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestTokenBucketRefill(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := testRateLimitConfig()
	cfg.Capacity = 1
	cfg.RefillInterval = 10 * time.Millisecond
	mw := NewTokenBucket(cfg, rdb)

	if rec := rateLimitedRequest(t, mw); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}
	if rec := rateLimitedRequest(t, mw); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}

	time.Sleep(25 * time.Millisecond)
	if rec := rateLimitedRequest(t, mw); rec.Code != http.StatusOK {
		t.Fatalf("after refill: expected 200, got %d", rec.Code)
	}
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	cfg := testRateLimitConfig()
	cfg.Enabled = false
	mw := NewTokenBucket(cfg, nil)

	for i := 0; i < 10; i++ {
		if rec := rateLimitedRequest(t, mw); rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter must not block, got %d", rec.Code)
		}
	}
}

func TestTokenBucketFailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	mw := NewTokenBucket(testRateLimitConfig(), rdb)
	if rec := rateLimitedRequest(t, mw); rec.Code != http.StatusOK {
		t.Fatalf("limiter must fail open on redis errors, got %d", rec.Code)
	}
}
