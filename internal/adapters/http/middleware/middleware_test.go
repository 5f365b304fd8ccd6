package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TestRateLimiter_AllowAndRefill verifies the bucket empties and refills per interval.
func TestRateLimiter_AllowAndRefill(t *testing.T) {
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	rl := &RateLimiter{visitors: map[string]*visitor{}, rate: 2, interval: time.Second, now: func() time.Time { return now }}

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request within the interval should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other IPs have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Error("bucket should refill after one interval")
	}

	now = now.Add(10 * time.Minute)
	rl.sweep(5 * time.Minute)
	if len(rl.visitors) != 0 {
		t.Errorf("expected idle visitors swept, got %d", len(rl.visitors))
	}
}

// TestClientIP verifies the port is stripped.
func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	if got := ClientIP(r); got != "192.0.2.7" {
		t.Errorf("ClientIP = %q", got)
	}
	r.RemoteAddr = "unix"
	if got := ClientIP(r); got != "unix" {
		t.Errorf("ClientIP = %q", got)
	}
}

// TestSecurityHeaders verifies the headers are set.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if !strings.Contains(rr.Header().Get("Content-Security-Policy"), "default-src 'self'") {
		t.Error("missing CSP")
	}
}

// TestRequireAdmin verifies the Basic-auth gate.
func TestRequireAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	var seen string
	h := RequireAdmin(string(hash))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AdminFromContext(r.Context())
	}))

	cases := []struct {
		name       string
		user, pass string
		auth       bool
		want       int
	}{
		{"no credentials", "", "", false, http.StatusUnauthorized},
		{"wrong password", AdminUser, "nope", true, http.StatusUnauthorized},
		{"wrong user", "root", "s3cret", true, http.StatusUnauthorized},
		{"ok", AdminUser, "s3cret", true, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.auth {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Errorf("status = %d, want %d", rr.Code, tc.want)
			}
			if tc.want == http.StatusUnauthorized && rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate challenge")
			}
		})
	}
	if seen != AdminUser {
		t.Errorf("admin in context = %q, want %q", seen, AdminUser)
	}
}

// TestRequireAdmin_OpenWhenUnconfigured verifies an empty hash keeps routes open.
func TestRequireAdmin_OpenWhenUnconfigured(t *testing.T) {
	var seen string
	h := RequireAdmin("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AdminFromContext(r.Context())
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/preview", nil))
	if rr.Code != http.StatusOK || seen != "anonymous" {
		t.Errorf("status = %d, admin = %q", rr.Code, seen)
	}
}

// TestFlash_RoundTrip verifies a flash message survives one redirect and is cleared.
func TestFlash_RoundTrip(t *testing.T) {
	rr := httptest.NewRecorder()
	SetFlash(rr, "Deleted 1 record; ok?")

	req := httptest.NewRequest("GET", "/preview", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	rr2 := httptest.NewRecorder()
	if got := PopFlash(rr2, req); got != "Deleted 1 record; ok?" {
		t.Errorf("PopFlash = %q", got)
	}
	cleared := rr2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("expected clearing cookie, got %+v", cleared)
	}

	if got := PopFlash(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)); got != "" {
		t.Errorf("expected empty flash, got %q", got)
	}
}
