package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ownerHeader carries the caller identity. Authentication is upstream;
// this service trusts the header as-is.
const ownerHeader = "X-User-ID"

// requestIDHeader is echoed back so clients can correlate logs.
const requestIDHeader = "X-Request-ID"

// owner extracts the caller identity from the request.
func owner(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ownerHeader))
}

// requestIDMiddleware assigns each request a UUID, reusing the client's
// when present.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all HTTP requests with method, path, and duration.
func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", r.Header.Get(requestIDHeader),
				"duration", time.Since(start))
		})
	}
}

// recoveryMiddleware recovers from panics and returns 500 Internal Server Error.
func recoveryMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered", "error", err, "path", r.URL.Path)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// limiterIdleTTL is how long a caller's limiter survives without traffic
// before a sweep drops it.
const limiterIdleTTL = 10 * time.Minute

// callerLimiter pairs a caller's limiter with its last activity, so idle
// entries can be evicted.
type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter throttles chat requests per caller. Callers are keyed by the
// owner header, falling back to the remote address.
type rateLimiter struct {
	mu        sync.Mutex
	callers   map[string]*callerLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

// newRateLimiter allows perMinute chat requests per caller. perMinute <= 0
// disables limiting.
func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		return &rateLimiter{}
	}
	return &rateLimiter{
		callers: make(map[string]*callerLimiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
	}
}

func (l *rateLimiter) allow(key string) bool {
	if l.callers == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	l.sweep(now)
	c, ok := l.callers[key]
	if !ok {
		c = &callerLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.callers[key] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// sweep drops callers idle past the TTL. It runs at most once per TTL, so
// the map never holds more than one TTL's worth of distinct callers. Must
// be called with mu held.
func (l *rateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	l.lastSweep = now
	for key, c := range l.callers {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(l.callers, key)
		}
	}
}

// middleware limits the chat endpoints only; probes and session listings
// stay unthrottled.
func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/chat") {
			key := owner(r)
			if key == "" {
				key = r.RemoteAddr
			}
			if !l.allow(key) {
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many chat requests, slow down")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// chain applies middleware in order: first middleware wraps outermost.
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
