package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterBurst(t *testing.T) {
	tests := []struct {
		name        string
		maxRequests int
		attempts    int
		wantAllowed int
	}{
		{"within limit", 5, 5, 5},
		{"over limit", 2, 4, 2},
		{"zero clamps to one", 0, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.maxRequests, time.Minute)
			allowed := 0
			for i := 0; i < tt.attempts; i++ {
				if rl.allow("203.0.113.7") {
					allowed++
				}
			}
			if allowed != tt.wantAllowed {
				t.Errorf("expected %d allowed, got %d", tt.wantAllowed, allowed)
			}
		})
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	rl.allow("203.0.113.7")
	if rl.allow("203.0.113.7") {
		t.Fatal("second request should be limited")
	}
	time.Sleep(60 * time.Millisecond)
	if !rl.allow("203.0.113.7") {
		t.Fatal("bucket should have refilled")
	}
}

func TestRateLimiterSeparatesClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/api/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	login := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := login("198.51.100.1:4000"); w.Code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", w.Code)
	}
	if w := login("198.51.100.2:4000"); w.Code != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", w.Code)
	}

	w := login("198.51.100.1:4001")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("repeat client: expected 429, got %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Too many requests. Please try again later." {
		t.Errorf("unexpected 429 body: %v", body)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.allow("198.51.100.1")
	rl.allow("198.51.100.2")

	rl.evict(time.Now().Add(time.Second))

	rl.mu.Lock()
	n := len(rl.clients)
	rl.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected idle clients to be evicted, %d left", n)
	}
	if !rl.allow("198.51.100.1") {
		t.Fatal("evicted client should start with a full bucket")
	}
}
