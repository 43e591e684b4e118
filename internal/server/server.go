// Package server exposes a layout engine over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness
//	GET  /version               build information
//	GET  /layout                serialized layout (?format=json|yaml|cbor)
//	PUT  /layout                replace the layout with a serialized document
//	GET  /layout/dot            Graphviz source of the layout
//	GET  /layout/svg            rendered layout
//	GET  /ops                   operation names
//	POST /ops/{name}            apply an operation given as a JSON body
//	GET  /parts/{id}            part contents and visibility
//	GET  /activities/{id}       activity state and resolved title
//	POST /anchor/place          one-shot popup placement
//	PUT  /anchor/elements       replace the live element geometry
//	POST /anchor/track          place a popup against the current layout
//	GET  /anchor/popups/{id}    newest tracked result of a popup
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dockgrid/pkg/core/anchor"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
)

// Config configures a Server.
type Config struct {
	// Addr is the TCP listen address, e.g. ":8080".
	Addr string

	// Engine holds the served layout. Required.
	Engine *layout.Engine

	// DiamondOffset is the popup distance from its anchor. Zero uses the
	// anchor package default.
	DiamondOffset float64

	// Logger defaults to log.Default().
	Logger *log.Logger

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server serves one engine.
type Server struct {
	cfg      Config
	engine   *layout.Engine
	logger   *log.Logger
	elements *liveElements
	tracker  *anchor.Tracker
	latest   anchor.Latest
	router   chi.Router

	ready chan struct{}
	addr  net.Addr
}

// New creates a server. It panics when cfg.Engine is nil.
func New(cfg Config) *Server {
	if cfg.Engine == nil {
		panic("server: Engine is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	elements := &liveElements{}
	s := &Server{
		cfg:      cfg,
		engine:   cfg.Engine,
		logger:   cfg.Logger,
		elements: elements,
		tracker:  anchor.NewTracker(elements, cfg.DiamondOffset),
		ready:    make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/layout", func(r chi.Router) {
		r.Get("/", s.handleGetLayout)
		r.Put("/", s.handlePutLayout)
		r.Get("/dot", s.handleDOT)
		r.Get("/svg", s.handleSVG)
	})

	r.Get("/ops", s.handleListOps)
	r.Post("/ops/{name}", s.handleApply)
	r.Get("/parts/{id}", s.handlePart)
	r.Get("/activities/{id}", s.handleActivity)

	r.Route("/anchor", func(r chi.Router) {
		r.Post("/place", s.handlePlace)
		r.Put("/elements", s.handleElements)
		r.Post("/track", s.handleTrack)
		r.Get("/popups/{id}", s.handlePopup)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. Valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve listens on cfg.Addr and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	s.addr = ln.Addr()
	close(s.ready)

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("listening", "addr", s.addr.String())

	done := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
		}
		close(done)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
	case err := <-done:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}
