package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RateLimit(nil, 1, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimitKeys(t *testing.T) {
	t.Parallel()

	r := gin.New()
	var keys []string
	r.Use(RealIP())
	r.POST("/translations", func(c *gin.Context) {
		keys = append(keys, KeyByUserAndPath()(c))
		c.Set(CtxUserID, "u1")
		keys = append(keys, KeyByUserAndPath()(c), KeyByIPAndPath()(c))
		if AllowPrivateIP()(c) {
			keys = append(keys, "private")
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/translations", nil)
	req.Header.Set("X-Forwarded-For", "10.1.2.3, 8.8.8.8")
	r.ServeHTTP(httptest.NewRecorder(), req)

	want := []string{
		"rl:path:/translations:anon:10.1.2.3",
		"rl:path:/translations:user:u1",
		"rl:path:/translations:ip:10.1.2.3",
		"private",
	}
	if len(keys) != len(want) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: want %q got %q", i, want[i], keys[i])
		}
	}
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer func() { _ = rdb.Close() }()

	r := gin.New()
	r.Use(RateLimit(rdb, 1, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Limit") != "" {
		t.Fatalf("expected pass-through without headers, got %d %v", w.Code, w.Header())
	}
}

func TestRemaining(t *testing.T) {
	t.Parallel()

	if remaining(5, 2) != 3 || remaining(5, 5) != 0 || remaining(5, 9) != 0 {
		t.Fatalf("unexpected remaining values")
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), AllowPrivateIP()))
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i, wantRemaining := range []string{"1", "0"} {
		w := send("203.0.113.7")
		if w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Remaining") != wantRemaining {
			t.Fatalf("request %d: %d remaining=%q", i, w.Code, w.Header().Get("X-RateLimit-Remaining"))
		}
	}

	w := send("203.0.113.7")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" || w.Header().Get("X-RateLimit-Limit") != "2" {
		t.Fatalf("unexpected headers: %v", w.Header())
	}
	if !strings.Contains(w.Body.String(), "rate limit exceeded") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	if ttl := mr.TTL("rl:path:/auth/login:ip:203.0.113.7"); ttl != time.Minute {
		t.Fatalf("window should expire with the first hit, ttl=%v", ttl)
	}

	if w := send("198.51.100.2"); w.Code != http.StatusOK {
		t.Fatalf("other clients keep their own window, got %d", w.Code)
	}
	for i := 0; i < 3; i++ {
		if w := send("10.0.0.5"); w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatalf("private ip should bypass, got %d", w.Code)
		}
	}

	mr.FastForward(time.Minute)
	if w := send("203.0.113.7"); w.Code != http.StatusOK {
		t.Fatalf("new window should allow again, got %d", w.Code)
	}
}
