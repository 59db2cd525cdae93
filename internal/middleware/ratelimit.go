package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

// RateLimit allows limit requests per window for each client IP. Bearer
// tokens are not verified at this layer, so they never select the bucket.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	buckets := make(map[string]*bucket)
	var nextSweep time.Time
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIPForRateLimit(r)
			now := time.Now()
			mu.Lock()
			if now.After(nextSweep) {
				sweep(buckets, now)
				nextSweep = now.Add(per)
			}
			b, ok := buckets[key]
			if !ok || now.After(b.until) {
				b = &bucket{until: now.Add(per)}
				buckets[key] = b
			}
			if b.count >= limit {
				retry := int(b.until.Sub(now).Seconds()) + 1
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			b.count++
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

// sweep drops expired buckets at most once per window. Callers hold the lock.
func sweep(buckets map[string]*bucket, now time.Time) {
	for k, b := range buckets {
		if now.After(b.until) {
			delete(buckets, k)
		}
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	}
	return r.RemoteAddr
}
