package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pagecheck/internal/api"
	"pagecheck/internal/logging"
	"pagecheck/internal/store"
)

// Source is the read side of the store used by the report server.
type Source interface {
	api.ReportReader
	CheckHealth(ctx context.Context) (store.DatabaseHealth, error)
}

// Server hosts the report views.
type Server struct {
	bind   string
	logger *slog.Logger
	source Source
	svc    *api.ReportService
	pages  *templates

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// NewServer builds a report server bound to bind.
func NewServer(bind string, source Source, logger *slog.Logger) (*Server, error) {
	if source == nil {
		return nil, errors.New("report: source is required")
	}
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("report: bind address is required")
	}
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	srv := &Server{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "report"),
		source: source,
		svc:    api.NewReportService(source),
		pages:  pages,
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleSummaryPage)
	r.Get("/report", s.handleReportPage)
	r.Get("/documents/{id}/pages/{page}", s.handlePagePage)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/report", s.handleReport)
		r.Get("/events", s.handleEvents)
		r.Get("/documents/{id}/pages/{page}", s.handlePage)
	})
	return r
}

// Start listens on the bind address and serves until ctx is cancelled or Stop
// is called.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("report listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("report server error",
				logging.Error(err),
				slog.String(logging.FieldEventType, "report_server_failed"),
				slog.String(logging.FieldErrorHint, "check bind address and port availability"),
			)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("report server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("report request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(started)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
