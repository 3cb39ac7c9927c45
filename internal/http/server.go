package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"finance/internal/cache"
	"finance/internal/core"
	"finance/internal/log"
	"finance/internal/middleware/ratelimit"
	"finance/internal/middleware/security"
	"finance/internal/middleware/trace"
	"finance/internal/services"
)

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the API is built on.
type Deps struct {
	Ledger   *services.LedgerService
	Reporter *services.Reporter
	Goals    *services.GoalTracker
	Calendar services.Calendar
	// Pinger backs /readyz; nil means always ready.
	Pinger Pinger
	Logger *log.Logger
}

// Options tune caching and request handling.
type Options struct {
	CacheTTL       time.Duration
	CacheSize      int
	RequestTimeout time.Duration
	// RateLimit is the number of mutating requests per client per minute.
	RateLimit int
}

func DefaultOptions() Options {
	return Options{
		CacheTTL:       5 * time.Minute,
		CacheSize:      100,
		RequestTimeout: 10 * time.Second,
		RateLimit:      ratelimit.DefaultConfig().RequestsPerMinute,
	}
}

type Server struct {
	http.Server

	ledger   *services.LedgerService
	reporter *services.Reporter
	goals    *services.GoalTracker
	cal      services.Calendar
	pinger   Pinger
	logger   *log.Logger
	timeout  time.Duration

	// Every mutation invalidates the dashboard cache, so a snapshot
	// computed before a write is never served after it.
	dashCache cache.Cache[dashboardKey, core.Dashboard]
	cacheMgr  *cache.Manager
	flight    singleflight.Group

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps, opts Options) *Server {
	def := DefaultOptions()
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = def.RequestTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	dash := cache.NewLRU[dashboardKey, core.Dashboard](opts.CacheSize, opts.CacheTTL)
	mgr := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	mgr.Register(dash)
	mgr.StartCleanup(opts.CacheTTL)

	s := &Server{
		ledger:    deps.Ledger,
		reporter:  deps.Reporter,
		goals:     deps.Goals,
		cal:       deps.Calendar,
		pinger:    deps.Pinger,
		logger:    logger,
		timeout:   opts.RequestTimeout,
		dashCache: dash,
		cacheMgr:  mgr,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
		detector:  security.NewDetector(),
		started:   time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/{userID}", s.handleGetUser)
	mux.HandleFunc("GET /api/users/{userID}/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/users/{userID}/incomes", s.handleListIncomes)
	mux.HandleFunc("POST /api/users/{userID}/incomes", s.handleCreateIncome)
	mux.HandleFunc("GET /api/users/{userID}/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/users/{userID}/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/users/{userID}/debts", s.handleListDebts)
	mux.HandleFunc("POST /api/users/{userID}/debts", s.handleCreateDebt)
	mux.HandleFunc("GET /api/users/{userID}/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/users/{userID}/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/users/{userID}/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /api/users/{userID}/notifications", s.handleCreateNotification)

	mux.HandleFunc("DELETE /api/{kind}/{id}", s.handleDeleteEntry)
	mux.HandleFunc("POST /api/goals/{id}/complete", s.handleCompleteGoal)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.handleMarkRead)
}

// middleware wraps the mux, outermost first: tracing, security headers,
// probe detection, rate limiting, request timeout.
func (s *Server) middleware(next http.Handler) http.Handler {
	h := s.withTimeout(next)
	h = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
			Type:    "rate_limited",
			Message: "rate limit exceeded, please try again later",
		}})
	})(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	return s.tracer.Middleware(h)
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Shutdown stops background goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

type dashboardKey struct {
	userID int64
	months int
}

// invalidate drops every cached dashboard after a mutation.
func (s *Server) invalidate() {
	s.dashCache.Invalidate()
}

// dashboard serves from cache, collapsing concurrent misses for the same
// key into one computation.
func (s *Server) dashboard(ctx context.Context, userID int64, months int) (core.Dashboard, error) {
	key := dashboardKey{userID: userID, months: months}
	if d, ok := s.dashCache.Get(key); ok {
		s.logger.DebugContext(ctx, "Dashboard cache hit", log.FieldUserID, userID)
		return d, nil
	}

	gen := s.dashCache.Generation()
	flightKey := fmt.Sprintf("%d:%d:%d", gen, userID, months)
	v, err, shared := s.flight.Do(flightKey, func() (any, error) {
		d, err := s.reporter.Dashboard(ctx, userID, months)
		if err != nil {
			return core.Dashboard{}, err
		}
		if !s.dashCache.Set(gen, key, d) {
			s.logger.DebugContext(ctx, "Stale dashboard not cached", log.FieldUserID, userID)
		}
		return d, nil
	})
	if err != nil {
		return core.Dashboard{}, err
	}
	if shared {
		s.logger.DebugContext(ctx, "Dashboard computation shared", log.FieldUserID, userID)
	}
	return v.(core.Dashboard), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready", "storage": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
