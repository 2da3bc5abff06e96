package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

// Limiter decide si key puede hacer otro request en la ventana actual.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit aplica l por IP (chi RealIP ya dejó la IP del cliente en RemoteAddr).
// Si el limiter falla, failOpen decide entre dejar pasar o responder 503.
func RateLimit(l Limiter, log logger.Logger, failOpen bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientKey(r))
			if err != nil {
				if log != nil {
					log.Warn("rate limiter error", map[string]any{"err": err})
				}
				if failOpen {
					next.ServeHTTP(w, r)
					return
				}
				httpx.WriteJSON(w, http.StatusServiceUnavailable, httpx.ErrorBody{Error: "rate limiter unavailable"})
				return
			}
			if !ok {
				httpx.WriteJSON(w, http.StatusTooManyRequests, httpx.ErrorBody{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MemoryLimiter es una ventana fija por proceso. Sirve con una sola instancia.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	count     int
	resetTime time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		visitors: map[string]*visitor{},
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v := l.visitors[key]
	if v == nil || now.After(v.resetTime) {
		l.visitors[key] = &visitor{count: 1, resetTime: now.Add(l.window)}
		l.sweep(now)
		return true, nil
	}

	if v.count >= l.limit {
		return false, nil
	}
	v.count++
	return true, nil
}

// sweep borra ventanas vencidas para que el mapa no crezca sin límite.
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.visitors) < 1024 {
		return
	}
	for k, v := range l.visitors {
		if now.After(v.resetTime) {
			delete(l.visitors, k)
		}
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
