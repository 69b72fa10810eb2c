package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/app"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/nav"
	"fintrack/internal/state"
	"fintrack/internal/view"
	appweb "fintrack/web"
)

// Exporter copies a snapshot somewhere outside the app, e.g. a spreadsheet.
type Exporter interface {
	Export(ctx context.Context, txs []core.Transaction) (int, error)
}

// Prober checks that the ledger answers; used by /readyz.
type Prober interface {
	Summary(ctx context.Context) (core.Totals, error)
}

// Options wires the server's collaborators. Controller is required.
type Options struct {
	Controller         *app.Controller
	Navigator          *nav.Navigator
	Formatter          *view.Formatter
	Exporter           Exporter
	Prober             Prober
	Logger             *log.Logger
	RateLimitPerMinute int
	LedgerTimeout      time.Duration
}

type Server struct {
	http.Server
	logger    *log.Logger
	templates *template.Template

	ctrl     *app.Controller
	store    *state.Store
	nav      *nav.Navigator
	format   *view.Formatter
	exporter Exporter
	prober   Prober
	timeout  time.Duration // readiness probe bound

	// chart datasets keyed by name, snapshot version and locale
	charts       *cache.LRU[string, view.Chart]
	cacheManager *cache.Manager

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware
	ips     *security.IPResolver
	detect  *security.Detector
	metrics *appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	started          time.Time
	created          atomic.Int64
	deleted          atomic.Int64
	refreshes        atomic.Int64
	ledgerFailures   atomic.Int64
	exports          atomic.Int64
	declinedDeletes  atomic.Int64
	validationErrors atomic.Int64
}

// NewServer parses the embedded templates and configures routes and
// middleware, returning a ready-to-run server.
func NewServer(addr string, opts Options) (*Server, error) {
	if opts.Controller == nil {
		return nil, errors.New("http server: controller is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Navigator == nil {
		opts.Navigator = nav.New()
	}
	if opts.Formatter == nil {
		opts.Formatter = view.DefaultFormatter()
	}
	if opts.LedgerTimeout <= 0 {
		opts.LedgerTimeout = 7 * time.Second
	}

	t, err := template.New("").ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	ips, err := security.NewIPResolver()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger:       opts.Logger.WithComponent(log.ComponentHTTP),
		templates:    t,
		ctrl:         opts.Controller,
		store:        opts.Controller.Store(),
		nav:          opts.Navigator,
		format:       opts.Formatter,
		exporter:     opts.Exporter,
		prober:       opts.Prober,
		timeout:      opts.LedgerTimeout,
		charts:       cache.NewLRU[string, view.Chart](64, 10*time.Minute),
		cacheManager: cache.NewManager(opts.Logger),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		tracer:       trace.NewMiddleware(ips.ClientIP),
		ips:          ips,
		detect:       security.NewDetector(ips),
		metrics:      &appMetrics{started: time.Now()},
	}
	s.cacheManager.Register(s.charts)
	s.cacheManager.Start(5 * time.Minute)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	// UI partials
	mux.HandleFunc("/ui/nav", s.handleNav)
	mux.HandleFunc("/ui/dashboard", s.handleDashboard)
	mux.HandleFunc("/ui/wallet", s.handleWallet)
	mux.HandleFunc("/ui/analytics", s.handleAnalytics)
	mux.HandleFunc("/ui/refresh", s.handleRefresh)
	mux.HandleFunc("/ui/form", s.handleForm)

	// Mutations
	mux.HandleFunc("/transactions", s.handleCreate)
	mux.HandleFunc("/transactions/{id}", s.handleDelete)
	mux.HandleFunc("/transactions/{id}/delete", s.handleDelete)

	// Data
	mux.HandleFunc("/api/charts/{name}", s.handleChart)
	mux.HandleFunc("/export.csv", s.handleExportCSV)
	mux.HandleFunc("/export/sheets", s.handleExportSheets)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(ips.ClientIP, s.onRateLimited)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = s.detect.Middleware(reportSuspicious)(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(opts.Logger)(handler)
	s.Handler = handler

	return s, nil
}

// Shutdown stops background loops, then the HTTP server. It runs once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func reportSuspicious(r *http.Request, clientIP, reason string) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
		log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, "reason", reason)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.ips.ClientIP(r), log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").
		TriggerErrorNotification("Too many requests. Please try again later.").
		Write(w)
}
