package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"odolog/internal/cache"
	"odolog/internal/core"
	applog "odolog/internal/log"
	"odolog/internal/middleware/ratelimit"
	"odolog/internal/middleware/security"
	"odolog/internal/middleware/trace"
	"odolog/internal/services"
)

const (
	maxBodyBytes    = 64 << 10
	readyTimeout    = 5 * time.Second
	statusCacheSize = 16
	statusCacheTTL  = 10 * time.Minute
)

// Server is the JSON API over a LedgerService.
type Server struct {
	http.Server
	service *services.LedgerService
	logger  *applog.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	// due statuses keyed by ledger revision
	statusCache *cache.LRU[[]core.DueStatus]

	startedAt    time.Time
	shutdownOnce sync.Once
}

type Option func(*Server)

func WithLogger(l *applog.Logger) Option {
	return func(s *Server) { s.logger = l.WithComponent(applog.ComponentHTTP) }
}

// WithRateLimit sets the per-client budget for mutating requests.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		cfg := ratelimit.DefaultConfig()
		cfg.RequestsPerMinute = perMinute
		s.limiter.Stop()
		s.limiter = ratelimit.NewLimiter(cfg)
	}
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, service *services.LedgerService, opts ...Option) *Server {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		service:     service,
		logger:      applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:    security.NewDetector(),
		tracer:      trace.NewMiddleware(),
		statusCache: cache.NewLRU[[]core.DueStatus](statusCacheSize, statusCacheTTL),
		startedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/vehicle", s.handleGetVehicle)
	mux.HandleFunc("PUT /api/vehicle", s.handleUpdateVehicle)

	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/notifications", s.handleNotifications)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	mux.HandleFunc("GET /api/tracking", s.handleTracking)
	mux.HandleFunc("POST /api/tracking/start", s.handleStartTracking)
	mux.HandleFunc("POST /api/tracking/distance", s.handleTrackingDistance)
	mux.HandleFunc("POST /api/tracking/stop", s.handleStopTracking)

	// outermost first
	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestLogger(s.logger, trace.RequestID, s.detector.ExtractClientIP)(h)
	h = s.tracer.Middleware(h)
	s.Handler = h

	return s
}

// StatusCache exposes the status cache for periodic cleanup.
func (s *Server) StatusCache() cache.Cleaner { return s.statusCache }

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate_limited", "Terlalu banyak permintaan. Coba lagi nanti.").Write(w)
}

// dueStatuses returns the status projection for the current revision,
// computing it at most once per revision.
func (s *Server) dueStatuses(ctx context.Context) []core.DueStatus {
	key := strconv.FormatUint(s.service.Revision(), 10)
	if statuses, ok := s.statusCache.Get(key); ok {
		return statuses
	}
	statuses, rev := s.service.StatusAt(ctx)
	s.statusCache.Set(strconv.FormatUint(rev, 10), statuses)
	return statuses
}
