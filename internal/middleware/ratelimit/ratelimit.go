package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/restbuck/coffeeshop/internal/middleware/auth"
)

const (
	defaultLimit = rate.Limit(10)
	defaultBurst = 20
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	done      chan struct{}
	closeOnce sync.Once
}

func New() *Limiter {
	l := &Limiter{
		visitors: make(map[string]*visitor),
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

func (l *Limiter) getVisitor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(defaultLimit, defaultBurst)
		l.visitors[key] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup drops buckets not seen for a while so the map does not grow forever.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}

		l.mu.Lock()
		for key, v := range l.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(l.visitors, key)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware buckets requests per authenticated user, falling back to the
// client IP for anonymous ones.
func (l *Limiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var key string
		if actor, ok := auth.Actor(c); ok {
			key = fmt.Sprintf("user:%d", actor.ID)
		} else {
			ip, _, err := net.SplitHostPort(c.Request().RemoteAddr)
			if err != nil {
				ip = c.Request().RemoteAddr
			}
			key = "ip:" + ip
		}

		if !l.getVisitor(key).Allow() {
			return echo.NewHTTPError(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		}
		return next(c)
	}
}
