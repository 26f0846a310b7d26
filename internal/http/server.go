package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"arcology/site/internal/content"
	"arcology/site/internal/fetch"
	"arcology/site/internal/forms"
	applog "arcology/site/internal/log"
	"arcology/site/internal/site"
)

// Options configures the HTTP server wiring.
type Options struct {
	Catalog     content.Catalog
	Fetch       *fetch.Client
	Database    *gorm.DB
	Theme       site.Theme
	Booker      forms.Booker
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	RateLimiter RateLimiterSettings
	// RenderWait bounds how long a page waits for uncached content before rendering
	// loading placeholders. Zero waits for the loader.
	RenderWait time.Duration
	Now        func() time.Time
}

// RateLimiterSettings configures the limiter applied to form and API submissions. The zero
// value disables limiting.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

func (s RateLimiterSettings) enabled() bool {
	return s != RateLimiterSettings{}
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	catalog     content.Catalog
	fetch       *fetch.Client
	db          *gorm.DB
	theme       site.Theme
	booker      forms.Booker
	logger      *logrus.Logger
	sentry      *sentry.Hub
	reporter    applog.Reporter
	renderWait  time.Duration
	now         func() time.Time
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, eris.New("content catalog is required")
	}
	if opts.Fetch == nil {
		return nil, eris.New("fetch client is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}
	if opts.Booker == nil {
		return nil, eris.New("consultation booker is required")
	}
	if err := opts.Theme.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid site theme")
	}
	if opts.RenderWait < 0 {
		return nil, eris.New("render wait must not be negative")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig(opts.Theme.Brand, "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:        api,
		mux:        mux,
		catalog:    opts.Catalog,
		fetch:      opts.Fetch,
		db:         opts.Database,
		theme:      opts.Theme,
		booker:     opts.Booker,
		logger:     opts.Logger,
		sentry:     opts.SentryHub,
		reporter:   applog.Reporter{Logger: opts.Logger, Hub: opts.SentryHub},
		renderWait: opts.RenderWait,
		now:        now,
	}

	if settings := opts.RateLimiter; settings.enabled() {
		if settings.Burst <= 0 {
			return nil, eris.New("rate limiter burst must be greater than zero")
		}
		if settings.RequestsPerSecond <= 0 {
			return nil, eris.New("rate limiter requests per second must be greater than zero")
		}
		if settings.ClientTTL <= 0 {
			return nil, eris.New("rate limiter client TTL must be greater than zero")
		}
		srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /favicon.ico", faviconHandler)
	s.mux.HandleFunc("HEAD /favicon.ico", faviconHandler)
	s.mux.HandleFunc("GET /favicon.svg", faviconHandler)
	s.mux.HandleFunc("HEAD /favicon.svg", faviconHandler)
	s.mux.Handle("GET /static/", staticHandler())

	s.registerPageRoutes()
	s.registerFormRoutes()
	s.registerAPIRoutes()
	s.registerHealthRoute()
}

// homePattern is the pattern the home route registers on the mux. Go's ServeMux treats a
// trailing slash as a subtree match, so every unknown GET path resolves to it.
const homePattern = "GET /"

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if r.URL.Path != "/" && (r.Method == stdhttp.MethodGet || r.Method == stdhttp.MethodHead) {
		if _, pattern := s.mux.Handler(r); pattern == homePattern {
			s.notFoundHandler(w, r)
			return
		}
	}
	s.mux.ServeHTTP(w, r)
}
