package server

import (
	"crypto/subtle"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/metrics"
)

// GuardConfig bounds what a single client address may do within one window.
// Zero values fall back to the package defaults.
type GuardConfig struct {
	TrustedProxies   []string
	Window           time.Duration
	MaxRequests      int
	AuthFailureAlert int
}

type clientWindow struct {
	start        time.Time
	requests     int
	authFailures int
}

// ClientGuard counts requests and failed API key checks per client address over a
// fixed window that starts with the client's first request
type ClientGuard struct {
	mu        sync.Mutex
	cfg       GuardConfig
	proxies   map[string]struct{}
	clients   map[string]*clientWindow
	lastSweep time.Time
	now       func() time.Time
}

// NewClientGuard creates a guard with cfg, filling in defaults
func NewClientGuard(cfg GuardConfig) *ClientGuard {
	if cfg.Window <= 0 {
		cfg.Window = DefaultRateLimitWindow
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultRateLimitRequests
	}
	if cfg.AuthFailureAlert <= 0 {
		cfg.AuthFailureAlert = DefaultAuthFailureAlert
	}

	proxies := make(map[string]struct{}, len(cfg.TrustedProxies))
	for _, p := range cfg.TrustedProxies {
		proxies[p] = struct{}{}
	}
	return &ClientGuard{
		cfg:     cfg,
		proxies: proxies,
		clients: make(map[string]*clientWindow),
		now:     time.Now,
	}
}

// window returns the client's current window, opening a new one when the old one
// has expired. Caller must hold the mutex.
func (g *ClientGuard) window(ip string, now time.Time) *clientWindow {
	if now.Sub(g.lastSweep) > g.cfg.Window {
		for addr, w := range g.clients {
			if now.Sub(w.start) > g.cfg.Window {
				delete(g.clients, addr)
			}
		}
		g.lastSweep = now
	}

	w, ok := g.clients[ip]
	if !ok || now.Sub(w.start) > g.cfg.Window {
		w = &clientWindow{start: now}
		g.clients[ip] = w
	}
	return w
}

// Allow counts a request from ip. When the client is over budget it returns false
// and how long until its window reopens.
func (g *ClientGuard) Allow(ip string) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	w := g.window(ip, now)
	w.requests++
	if w.requests <= g.cfg.MaxRequests {
		return true, 0
	}

	if w.requests == g.cfg.MaxRequests+1 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "limit", g.cfg.MaxRequests, "window", g.cfg.Window.String())
	}
	return false, w.start.Add(g.cfg.Window).Sub(now)
}

// FailedAuth records a rejected API key from ip and returns the count in the window
func (g *ClientGuard) FailedAuth(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.window(ip, g.now())
	w.authFailures++
	if w.authFailures == g.cfg.AuthFailureAlert {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.authFailures)
	}
	return w.authFailures
}

// ClientIP returns the caller's address. X-Forwarded-For is only honoured when the
// direct peer is a trusted proxy, and then only its last hop is used.
func (g *ClientGuard) ClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if _, trusted := g.proxies[remoteIP]; trusted {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
	}
	return remoteIP
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthMiddleware requires the API key on every non-public path
func AuthMiddleware(apiKey string, guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := guard.ClientIP(r)
				failures := guard.FailedAuth(ip)
				metrics.HTTPRequestsBlocked.WithLabelValues(metrics.ReasonUnauthorized).Inc()

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip,
					"failures", failures)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware refuses clients that exceeded their request budget
func RateLimitMiddleware(guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok, retryAfter := guard.Allow(guard.ClientIP(r)); !ok {
				metrics.HTTPRequestsBlocked.WithLabelValues(metrics.ReasonRateLimited).Inc()
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimitMiddleware caps request bodies at maxBytes
func BodyLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets the standard hardening headers
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}
