// Package stub is a development backend speaking the same envelope as the
// production API, so every screen can be exercised without one.
package stub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the stub API under /api.
type Server struct {
	store  *sqlite.Store
	logger logging.Logger
	token  string
	router chi.Router
	// facets holds the category labels of each resource so filters accept
	// labels as well as codes.
	facets map[string]map[string]map[string]string
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires a bearer token on every request.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// NewServer returns a server over store.
func NewServer(store *sqlite.Store, logger logging.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		store:  store,
		logger: logger.With("component", "stub"),
		facets: buildFacets(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/invoices/{id}/pdf", s.handleInvoicePDF)
		r.Route("/{resource}", func(r chi.Router) {
			r.Use(s.knownResource)
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Get("/{id}", s.handleGet)
			r.Put("/{id}", s.handleUpdate)
			r.Delete("/{id}", s.handleDelete)
			r.Post("/{id}/{action}", s.handleAction)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("stub api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub: listen %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("stub api stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeFailure(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) knownResource(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource := chi.URLParam(r, "resource")
		if _, ok := resources[resource]; !ok {
			writeFailure(w, http.StatusNotFound, "unknown resource "+resource)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resources maps each served resource to the noun used in messages.
var resources = map[string]string{
	"stations":  "station",
	"pompistes": "pompiste",
	"clients":   "client",
	"invoices":  "invoice",
}

func buildFacets() map[string]map[string]map[string]string {
	return map[string]map[string]map[string]string{
		"stations":  facetsOf(domain.StationDescriptor().Schema),
		"pompistes": facetsOf(domain.PompisteDescriptor().Schema),
		"clients":   facetsOf(domain.ClientDescriptor().Schema),
		"invoices":  facetsOf(domain.InvoiceDescriptor().Schema),
	}
}

func facetsOf[T any](schema listview.Schema[T]) map[string]map[string]string {
	m := make(map[string]map[string]string, len(schema.Categories))
	for _, c := range schema.Categories {
		m[c.Name] = c.Labels
	}
	return m
}
