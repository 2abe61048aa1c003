package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type visitWindow struct {
	count int
	reset time.Time
}

// RateLimit caps each client IP to limit requests per window. Exceeding the
// cap yields 429 with a Retry-After hint. State is in-process only, so each
// instance enforces its own budget.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	visitors := make(map[string]*visitWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := rateLimitKey(r)
			now := time.Now()

			mu.Lock()
			if len(visitors) > 4096 {
				for k, v := range visitors {
					if now.After(v.reset) {
						delete(visitors, k)
					}
				}
			}
			v, ok := visitors[ip]
			if !ok || now.After(v.reset) {
				v = &visitWindow{reset: now.Add(per)}
				visitors[ip] = v
			}
			if v.count >= limit {
				wait := time.Until(v.reset)
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			v.count++
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitKey picks the first valid forwarded address, falling back to the
// socket peer.
func rateLimitKey(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
