package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"todo-list/internal/export"
	"todo-list/internal/store"
	"todo-list/internal/todo"
	"todo-list/internal/view"
	"todo-list/pkg/mq"
)

type Server struct {
	svc             *todo.Service
	exporter        *export.Exporter
	views           *view.Renderer
	logger          *log.Logger
	shutdownTimeout time.Duration
}

type Option func(*config)

type config struct {
	publisher       mq.Publisher
	logger          *log.Logger
	shutdownTimeout time.Duration
}

func WithPublisher(p mq.Publisher) Option { return func(c *config) { c.publisher = p } }

func WithLogger(l *log.Logger) Option { return func(c *config) { c.logger = l } }

func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) { c.shutdownTimeout = d }
}

func New(st store.ItemStore, opts ...Option) *Server {
	c := config{publisher: mq.Noop{}, logger: log.Default(), shutdownTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&c)
	}
	return &Server{
		svc:             todo.NewService(st, todo.WithPublisher(c.publisher), todo.WithLogger(c.logger)),
		exporter:        export.NewExporter(st),
		views:           view.MustNew(),
		logger:          c.logger,
		shutdownTimeout: c.shutdownTimeout,
	}
}

// Handler returns the routed, logged handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, todo.ItemsPath, http.StatusFound)
	})
	mux.HandleFunc("GET /items", s.handleList)
	mux.HandleFunc("POST /items", s.handleCreate)
	mux.HandleFunc("GET /items/{id}/mark_completed", s.handleMarkCompleted)
	mux.HandleFunc("POST /items/{id}/mark_completed", s.handleMarkCompleted)
	mux.HandleFunc("GET /items/export", s.handleExport)
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.List(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.views.Index(w, page); err != nil {
		s.writeErr(w, r, err)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirect, err := s.svc.Create(r.Context(), r.PostForm)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	http.Redirect(w, r, redirect.Location, http.StatusFound)
}

func (s *Server) handleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	redirect, err := s.svc.MarkCompleted(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	http.Redirect(w, r, redirect.Location, http.StatusFound)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	b, err := s.exporter.Export(r.Context(), format)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	_, _ = w.Write(b)
}
