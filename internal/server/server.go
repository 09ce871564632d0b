// Package server exposes a live blocktower scene over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness probe
//	GET  /scene          JSON snapshot of the scene
//	GET  /scene.svg      SVG rendering of the scene
//	GET  /scene/tx       hit test: ?x=&y= pointer position, top-left origin
//	GET  /scene/tx/{id}  one placed transaction
//	POST /scene/resize   {"width": w, "height": h}
//	GET  /metrics        Prometheus exposition
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/render/styles"
)

// HTTP timeouts.
const (
	readTimeout       = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves one live scene.
type Server struct {
	live     *pipeline.Live
	logger   *log.Logger
	theme    styles.Theme
	gatherer prometheus.Gatherer
	origins  []string
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithTheme sets the colour theme for /scene.svg.
func WithTheme(t styles.Theme) Option { return func(s *Server) { s.theme = t } }

// WithGatherer sets the registry exposed on /metrics. Defaults to
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option { return func(s *Server) { s.gatherer = g } }

// WithAllowedOrigins restricts cross-origin requests to origins. Without it
// every origin is allowed.
func WithAllowedOrigins(origins []string) Option { return func(s *Server) { s.origins = origins } }

// New returns a server for live.
func New(live *pipeline.Live, opts ...Option) *Server {
	s := &Server{
		live:     live,
		logger:   log.Default(),
		theme:    styles.Mempool,
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(s.routes())
	s.handler = gziphandler.GzipHandler(corsHandler)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/scene", s.handleScene)
	r.Get("/scene.svg", s.handleSceneSVG)
	r.Get("/scene/tx", s.handleTxAt)
	r.Get("/scene/tx/{id}", s.handleTx)
	r.Post("/scene/resize", s.handleResize)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{DisableCompression: true}))
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving scene", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	// If shutdown times out, make sure the server is still closed.
	_ = srv.Close()
	if serveErr := <-errc; serveErr != nil && !stderrors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
