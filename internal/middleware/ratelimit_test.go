package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitKey(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{
			name:       "forwarded ip wins",
			forwarded:  "203.0.113.7",
			remoteAddr: "198.51.100.10:9000",
			want:       "203.0.113.7",
		},
		{
			name:       "first valid entry of a chain",
			forwarded:  " bogus, 203.0.113.7 , 198.51.100.2",
			remoteAddr: "198.51.100.10:9000",
			want:       "203.0.113.7",
		},
		{
			name:       "no forwarded header uses peer",
			remoteAddr: "198.51.100.10:9000",
			want:       "198.51.100.10",
		},
		{
			name:       "garbage forwarded falls back to peer",
			forwarded:  "not-an-ip",
			remoteAddr: "198.51.100.10:9000",
			want:       "198.51.100.10",
		},
		{
			name:       "ipv6 peer",
			remoteAddr: net.JoinHostPort("2001:db8::9", "443"),
			want:       "2001:db8::9",
		},
		{
			name:       "peer without port passes through",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := rateLimitKey(req); got != tc.want {
				t.Fatalf("rateLimitKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.10:9000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send(); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "203.0.113.7:9000"
	otherRec := httptest.NewRecorder()
	handler.ServeHTTP(otherRec, other)
	if otherRec.Code != http.StatusOK {
		t.Fatalf("different client: status = %d, want %d", otherRec.Code, http.StatusOK)
	}
}
