// Package server runs the public HTML server and the loopback-only JSON admin server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/maloquacious/goobcms/internal/install"
	"github.com/maloquacious/goobcms/internal/logger"
	"github.com/maloquacious/goobcms/internal/state"
	"github.com/maloquacious/goobcms/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Store is the part of the store the servers read.
type Store interface {
	CheckState(ctx context.Context) (store.StoreState, error)
	DB() store.DBTX
}

// Installer runs the install from the admin API.
type Installer interface {
	Run(ctx context.Context, inputs install.Inputs) (*install.Report, error)
}

// Options configures a Server.
type Options struct {
	Version   string
	PublicDir string
	Store     Store
	Installer Installer
	Installed *state.Installed
	Gatherer  prometheus.Gatherer
	Logger    logger.Logger
}

// Server holds the handlers for both listeners.
type Server struct {
	version   string
	publicDir string
	store     Store
	installer Installer
	installed *state.Installed
	gatherer  prometheus.Gatherer
	log       logger.Logger
	started   time.Time
	shutdown  chan struct{}
}

// New returns a Server.
func New(opts Options) *Server {
	s := &Server{
		version:   opts.Version,
		publicDir: opts.PublicDir,
		store:     opts.Store,
		installer: opts.Installer,
		installed: opts.Installed,
		gatherer:  opts.Gatherer,
		log:       opts.Logger,
		started:   time.Now(),
		shutdown:  make(chan struct{}, 1),
	}
	if s.publicDir == "" {
		s.publicDir = "public"
	}
	if s.installed == nil {
		s.installed = state.Global
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.log == nil {
		s.log = logger.Default
	}
	return s
}

// ShutdownRequested is signalled when the admin API asks the process to stop.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdown
}

func (s *Server) requestShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

// ListenAndServe runs both servers until ctx is cancelled, a server fails or
// the admin API requests a shutdown, then shuts both down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port, adminPort int, shutdownTimeout time.Duration) error {
	publicSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.PublicHandler(),
	}

	// admin is bound to loopback only
	adminListener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", adminPort))
	if err != nil {
		return fmt.Errorf("admin listener bind failed (loopback only): %w", err)
	}
	adminSrv := &http.Server{
		Handler: s.AdminHandler(),
	}

	errCh := make(chan error, 2)

	go func() {
		s.log.Info("public server listening on :%d", port)
		if err := publicSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("public server error: %w", err)
		}
	}()

	go func() {
		s.log.Info("admin server listening on 127.0.0.1:%d (JSON-only)", adminPort)
		if err := adminSrv.Serve(adminListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("admin server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case <-s.shutdown:
		s.log.Info("shutdown requested by admin API")
	case serveErr = <-errCh:
		s.log.Error("server error: %v", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := publicSrv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("public server shutdown: %v", err)
	}
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("admin server shutdown: %v", err)
	}
	s.log.Info("shutdown complete")
	return serveErr
}
