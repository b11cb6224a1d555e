// Package mockapi serves deterministic synthetic chart data with the same
// routes and envelope as the real chart API. It backs `saher mock-api` for
// local development and the client and dashboard tests.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/logger"
)

// Options configures the mock server.
type Options struct {
	// Token, when set, must be presented as a bearer token.
	Token string
	// Prefix is the route prefix matching the API base path. Defaults to "/api".
	Prefix string
	// Now anchors generated timestamps. Defaults to time.Now.
	Now func() time.Time
	// Latency delays every chart response, to make the loading state visible.
	Latency time.Duration
	// AllowedOrigins enables CORS for browser dashboards on these origins.
	AllowedOrigins []string
	// RateLimit caps requests per client IP per minute; 0 disables it.
	RateLimit int
	Log       logger.Logger
}

type server struct {
	opts    Options
	catalog *Catalog
}

// NewHandler builds the chi router for the mock API.
func NewHandler(opts Options) http.Handler {
	if opts.Prefix == "" {
		opts.Prefix = "/api"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	s := &server{opts: opts, catalog: DefaultCatalog()}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
			AllowedHeaders: []string{"Authorization", "Content-Type", api.RequestIDHeader},
		}).Handler)
	}
	if opts.RateLimit > 0 {
		r.Use(httprate.Limit(opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	r.Route(opts.Prefix, func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/devices", s.listDevices)
		r.Get("/devices/{id}/chart", s.deviceChart)
		r.Get("/hierarchy", s.hierarchy)
		r.Get("/hierarchy/{id}/chart", s.hierarchyChart)
	})
	return r
}

// Serve runs the mock API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Token != "" {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || got != s.opts.Token {
				writeJSON(w, http.StatusUnauthorized, api.Envelope[struct{}]{Message: "invalid or missing token"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) listDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.catalog.Devices
	writeJSON(w, http.StatusOK, api.Envelope[[]api.Device]{Success: true, Data: &devices})
}

func (s *server) hierarchy(w http.ResponseWriter, r *http.Request) {
	roots := s.catalog.Roots
	writeJSON(w, http.StatusOK, api.Envelope[[]api.HierarchyNode]{Success: true, Data: &roots})
}

func (s *server) deviceChart(w http.ResponseWriter, r *http.Request) {
	tr, ok := s.timeRange(w, r)
	if !ok {
		return
	}
	s.delay(r.Context())

	id := chi.URLParam(r, "id")
	data, found := s.catalog.DeviceChart(id, tr, s.opts.Now())
	if !found {
		writeJSON(w, http.StatusNotFound, api.Envelope[struct{}]{Message: "device " + id + " not found"})
		return
	}
	s.opts.Log.Debug("device chart %s/%s", id, tr)
	writeJSON(w, http.StatusOK, api.Envelope[api.DeviceChartData]{Success: true, Data: data})
}

func (s *server) hierarchyChart(w http.ResponseWriter, r *http.Request) {
	tr, ok := s.timeRange(w, r)
	if !ok {
		return
	}
	s.delay(r.Context())

	id := chi.URLParam(r, "id")
	data, found := s.catalog.HierarchyChart(id, tr, s.opts.Now())
	if !found {
		writeJSON(w, http.StatusNotFound, api.Envelope[struct{}]{Message: "hierarchy node " + id + " not found"})
		return
	}
	s.opts.Log.Debug("hierarchy chart %s/%s", id, tr)
	writeJSON(w, http.StatusOK, api.Envelope[api.HierarchyChartData]{Success: true, Data: data})
}

func (s *server) timeRange(w http.ResponseWriter, r *http.Request) (api.TimeRange, bool) {
	raw := r.URL.Query().Get("timeRange")
	if raw == "" {
		return api.RangeDay, true
	}
	tr, err := api.ParseTimeRange(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, api.Envelope[struct{}]{Message: err.Error()})
		return "", false
	}
	return tr, true
}

func (s *server) delay(ctx context.Context) {
	if s.opts.Latency <= 0 {
		return
	}
	select {
	case <-time.After(s.opts.Latency):
	case <-ctx.Done():
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
