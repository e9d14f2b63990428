// Package api serves a user's match history over HTTP.
//
// The API is read-only: matches are written by the scoring engine through
// the store, never through HTTP.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/roach88/cricscore/internal/match"
)

// Store is the read side of the match store.
type Store interface {
	ListMatches(ctx context.Context, userID string) ([]match.Record, error)
	ReadMatch(ctx context.Context, userID, id string) (match.Record, error)
	Ping(ctx context.Context) error
}

// Options configures the router.
type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
	Timeout     time.Duration

	// RateLimit is the sustained request rate per client IP in requests
	// per second. Zero disables limiting.
	RateLimit float64
	Burst     int

	Now func() time.Time
}

// NewRouter builds the HTTP handler for the history API.
func NewRouter(store Store, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := &Handler{store: store, logger: opts.Logger, now: opts.Now}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.Timeout))
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		r.Use(rateLimit(newClientLimiter(rate.Limit(opts.RateLimit), burst)))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/matches", h.ListMatches)
		r.Get("/matches/{matchID}", h.GetMatch)
		r.Get("/stats", h.GetStats)
	})

	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

// clientLimiter hands out one token bucket per client IP.
type clientLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{limit: limit, burst: burst, clients: make(map[string]*rate.Limiter)}
}

// allow takes a token from the bucket of the client at addr. addr is
// RemoteAddr after RealIP, so it may or may not carry a port.
func (c *clientLimiter) allow(addr string) bool {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	c.mu.Lock()
	l, ok := c.clients[addr]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.clients[addr] = l
	}
	c.mu.Unlock()

	return l.Allow()
}

// rateLimit rejects requests with 429 once the client's bucket is empty.
func rateLimit(c *clientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !c.allow(r.RemoteAddr) {
				w.Header().Set("Retry-After", "1")
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
