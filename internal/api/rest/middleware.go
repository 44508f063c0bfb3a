package rest

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RecoveryMiddleware turns handler panics into 500 responses.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
					respondError(w, http.StatusInternalServerError, "Internal server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs each request at debug level.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"elapsed", fmt.Sprintf("%.2fms", float64(elapsed.Microseconds())/1000.0),
			)
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token bucket per client address. A bucket idle for
// a whole window has refilled completely, so it is dropped and recreated on
// the client's next request.
type ipLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(requestsPerWindow int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		limiters:  make(map[string]*clientLimiter),
		rate:      rate.Limit(float64(requestsPerWindow) / window.Seconds()),
		burst:     max(1, requestsPerWindow),
		idle:      window,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	c, ok := l.limiters[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep drops idle clients. Callers hold mu.
func (l *ipLimiter) sweep(now time.Time) {
	for ip, c := range l.limiters {
		if now.Sub(c.lastSeen) >= l.idle {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

// RateLimitMiddleware limits requests per client IP.
func RateLimitMiddleware(requestsPerWindow int, window time.Duration) func(http.Handler) http.Handler {
	limiter := newIPLimiter(requestsPerWindow, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, _ := net.SplitHostPort(r.RemoteAddr)
			if ip == "" {
				ip = r.RemoteAddr
			}
			if !limiter.get(ip).Allow() {
				w.Header().Set("Retry-After", fmt.Sprint(int(window.Seconds())))
				respondError(w, http.StatusTooManyRequests, "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
