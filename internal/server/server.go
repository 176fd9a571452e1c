// Package server exposes datasets and the query engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/vegasq/insight/dataset"
	"github.com/vegasq/insight/query"
)

// Registry is the dataset store the server manages. *dataset.Registry
// implements it.
type Registry interface {
	Add(id string, kind dataset.Kind, rows []dataset.Row) (*dataset.Dataset, error)
	Remove(id string) error
	List() []dataset.Info
	Load() error
}

// Querier evaluates JSON queries. *query.Engine implements it.
type Querier interface {
	PerformQueryJSON(data []byte) (*query.Result, error)
}

// Config holds configuration for the server.
type Config struct {
	Registry        Registry
	Engine          Querier
	Logger          *slog.Logger
	ListenAddr      string
	DataDir         string
	Watch           bool
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	registry        Registry
	engine          Querier
	logger          *slog.Logger
	addr            string
	dataDir         string
	watch           bool
	maxBodyBytes    int64
	shutdownTimeout time.Duration
	reloadDelay     time.Duration
	router          chi.Router
}

// New creates a server. Zero limits and timeouts fall back to defaults.
func New(cfg Config) *Server {
	s := &Server{
		registry:        cfg.Registry,
		engine:          cfg.Engine,
		logger:          cfg.Logger,
		addr:            cfg.ListenAddr,
		dataDir:         cfg.DataDir,
		watch:           cfg.Watch,
		maxBodyBytes:    cfg.MaxBodyBytes,
		shutdownTimeout: cfg.ShutdownTimeout,
		reloadDelay:     200 * time.Millisecond,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = 64 << 20
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
		securityHeaders,
		limitBody(s.maxBodyBytes),
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/datasets", s.handleListDatasets)
	r.Put("/dataset/{id}/{kind}", s.handleAddDataset)
	r.Delete("/dataset/{id}", s.handleRemoveDataset)
	r.Post("/query", s.handleQuery)
	r.Get("/schema/{kind}", s.handleSchema)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on the configured address and blocks until ctx is
// cancelled or the server fails.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully. With watching enabled the registry is reloaded whenever a
// dataset file in the data directory changes.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		w, err := newWatcher(s.dataDir)
		if err != nil {
			_ = ln.Close()
			return err
		}
		eg.Go(func() error {
			return s.watchFiles(egctx, w)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
