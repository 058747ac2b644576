package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.168.1.5:4321", nil, "192.168.1.5"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.3"}, "198.51.100.3"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = tt.remoteAddr
		for k, v := range tt.headers {
			req.Header.Set(k, v)
		}
		if got := GetClientIP(req); got != tt.want {
			t.Errorf("%s: GetClientIP = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIPRateLimiterAllow(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             2,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("burst requests rejected")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("request beyond burst allowed")
	}

	// Independent IPs do not share a bucket.
	if !rl.Allow("2.2.2.2") {
		t.Error("fresh IP rejected")
	}

	stats := rl.GetStats()
	if stats["allowed"] != 3 || stats["rejected"] != 1 {
		t.Errorf("stats = %v, want 3 allowed / 1 rejected", stats)
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("1.1.1.1") || !wrl.Allow("1.1.1.1") {
		t.Fatal("connections under the cap rejected")
	}
	if wrl.Allow("1.1.1.1") {
		t.Error("connection over the cap allowed")
	}

	wrl.Release("1.1.1.1")
	if !wrl.Allow("1.1.1.1") {
		t.Error("released slot not reusable")
	}
	if got := wrl.GetConnectionCount("1.1.1.1"); got != 2 {
		t.Errorf("connection count = %d, want 2", got)
	}
}

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:3000", true},
		{"https://vercel-dodge-bullet.vercel.app", true},
		{"https://evil.example.com", false},
	}

	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.want {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
