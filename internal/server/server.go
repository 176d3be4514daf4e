package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"groupcheck/internal/catalog"
	"groupcheck/internal/config"
	"groupcheck/internal/logging"
	"groupcheck/internal/review"
	"groupcheck/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the review UI and status API.
type Server struct {
	bind       string
	cookieName string
	logger     *slog.Logger
	svc        *review.Service
	catalog    *catalog.Catalog
	sessions   *session.Manager
	templates  *template.Template
	mux        *http.ServeMux
	startedAt  time.Time

	listener net.Listener
	server   *http.Server
}

// New constructs the HTTP server around an assembled review service.
func New(cfg *config.Config, svc *review.Service, cat *catalog.Catalog, sessions *session.Manager, logger *slog.Logger) (*Server, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	srv := &Server{
		bind:       cfg.Paths.HTTPBind,
		cookieName: cfg.Review.CookieName,
		logger:     logging.NewComponentLogger(logger, "http-server"),
		svc:        svc,
		catalog:    cat,
		sessions:   sessions,
		templates:  templates,
		startedAt:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleIndex)
	mux.HandleFunc("/verify", srv.handleVerify)
	mux.HandleFunc("/done", srv.handleDone)
	mux.HandleFunc("/reset", srv.handleReset)
	mux.HandleFunc("/clear_data", srv.handleClearData)
	mux.HandleFunc("/api/status", srv.handleStatus)
	srv.mux = mux

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the route mux, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins listening and serving until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("review server listening",
		logging.String("address", listener.Addr().String()),
		logging.Int("groups", s.catalog.Len()),
	)
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
