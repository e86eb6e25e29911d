// Package ui serves the settings page: an HTML view of the engine list and
// a JSON API for managing engines, the default target and the badge, plus
// endpoints that fire the icon and menu triggers.
package ui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/service"
)

//go:embed templates/*.html
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/index.html"))

// Server is the settings UI.
type Server struct {
	svc    service.Service
	router *relay.Router
	logger *slog.Logger
	author string
	stop   func()
}

// New returns a Server. router handles the trigger endpoints and keeps the
// badge and menu current. Call Close when done.
func New(svc service.Service, router *relay.Router, logger *slog.Logger, author string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if author == "" {
		author = "ui"
	}
	s := &Server{svc: svc, router: router, logger: logger, author: author}
	s.stop = svc.Watch(s.refresh)
	return s
}

// Close stops following settings changes.
func (s *Server) Close() {
	s.stop()
}

// refresh keeps the badge and menu in step with committed writes.
func (s *Server) refresh(keys []string) {
	if _, err := s.router.StorageChange(context.Background(), keys); err != nil {
		s.logger.Error("refresh badge and menu", "error", err)
	}
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", s.handleSettings)
		r.Get("/badge", s.handleBadge)
		r.Put("/badge", s.handleSetBadge)
		r.Get("/menu", s.handleMenu)
		r.Put("/target", s.handleSetTarget)
		r.Post("/reset", s.handleReset)
		r.Get("/history", s.handleHistory)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		r.Route("/engines", func(r chi.Router) {
			r.Get("/", s.handleEngines)
			r.Post("/", s.handleAddEngine)
			r.Put("/{id}", s.handleUpdateEngine)
			r.Delete("/{id}", s.handleDeleteEngine)
			r.Put("/{id}/roles", s.handleSetRoles)
		})

		r.Route("/trigger", func(r chi.Router) {
			r.Post("/icon", s.handleTriggerIcon)
			r.Post("/menu", s.handleTriggerMenu)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("settings UI listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		s.logger.Info("settings UI stopping")
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
