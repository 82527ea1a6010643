package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimit allows limit requests per window for each caller. Callers are
// keyed by account once AuthJWT has run, by client ip otherwise. Idle
// limiters expire after a few windows.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	var mu sync.Mutex
	limiters := cache.New(3*per, 6*per)
	every := rate.Every(per / time.Duration(limit))
	get := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if v, ok := limiters.Get(key); ok {
			limiters.SetDefault(key, v)
			return v.(*rate.Limiter)
		}
		l := rate.NewLimiter(every, limit)
		limiters.SetDefault(key, l)
		return l
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := get(rateLimitKey(r)).Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if id := AccountIDFromContext(r.Context()); id != "" {
		return "acct:" + id
	}
	return "ip:" + remoteHost(r.RemoteAddr)
}

// remoteHost strips the port. chi's RealIP has already applied any
// forwarding headers by the time this runs.
func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
