package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"beatbox/config"
	"beatbox/core/catalog"
	"beatbox/logger"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Server serves the catalog over HTTP.
type Server struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	router  *mux.Router
}

// New builds the router for cat.
func New(cfg *config.Config, cat *catalog.Catalog) *Server {
	s := &Server{cfg: cfg, catalog: cat, router: mux.NewRouter()}
	s.routes()
	return s
}

// collection registers h on both /prefix and /prefix/.
func (s *Server) collection(prefix string, h http.HandlerFunc, method string) {
	s.router.HandleFunc(prefix, h).Methods(method)
	s.router.HandleFunc(prefix+"/", h).Methods(method)
}

func (s *Server) routes() {
	r := s.router

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)

	s.collection("/beat", s.ListBeatsHandler, http.MethodGet)
	s.collection("/beat", s.CreateBeatHandler, http.MethodPost)
	r.HandleFunc("/beat/download/{id}", s.DownloadBeatHandler).Methods(http.MethodGet)
	r.HandleFunc("/beat/image/{filename}", s.BeatImageHandler).Methods(http.MethodGet)
	r.HandleFunc("/beat/{id}", s.GetBeatHandler).Methods(http.MethodGet)
	r.HandleFunc("/beat/{id}", s.DeleteBeatHandler).Methods(http.MethodDelete)

	s.collection("/vocal", s.ListVocalsHandler, http.MethodGet)
	s.collection("/vocal", s.CreateVocalHandler, http.MethodPost)
	r.HandleFunc("/vocal/download/{id}", s.DownloadVocalHandler).Methods(http.MethodGet)
	r.HandleFunc("/vocal/beat/{beatId}", s.ListBeatVocalsHandler).Methods(http.MethodGet)
	r.HandleFunc("/vocal/{id}", s.GetVocalHandler).Methods(http.MethodGet)
	r.HandleFunc("/vocal/{id}", s.DeleteVocalHandler).Methods(http.MethodDelete)

	// Tracks live under /music.
	s.collection("/music", s.ListTracksHandler, http.MethodGet)
	s.collection("/music", s.CreateTrackHandler, http.MethodPost)
	r.HandleFunc("/music/download/{id}", s.DownloadTrackHandler).Methods(http.MethodGet)
	r.HandleFunc("/music/image/{filename}", s.TrackImageHandler).Methods(http.MethodGet)
	r.HandleFunc("/music/{id}", s.GetTrackHandler).Methods(http.MethodGet)
	r.HandleFunc("/music/{id}", s.DeleteTrackHandler).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler returns the router wrapped in access logging, CORS and panic recovery.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.Println{}),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(s.cfg.AllowedOrigins),
		handlers.AllowCredentials(),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{
			"Accept", "Accept-Language", "Authorization", "Content-Type",
			"Content-Language", "Origin", "Range", "X-Requested-With",
		}),
		handlers.ExposedHeaders([]string{"Content-Length", "Content-Range", "Content-Disposition"}),
	)(h)
	return accessLog(h)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		logger.Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", m.Code),
			logger.Int64("bytes", m.Written),
			logger.Duration("duration", m.Duration),
			logger.String("remote", r.RemoteAddr))
	})
}

// HealthHandler reports 503 when the database does not answer.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.catalog.Ping(ctx); err != nil {
		logger.Warn("health check failed", logger.ErrorField(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// five seconds.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ServerAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute, // large uploads
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			logger.String("addr", s.cfg.ServerAddr),
			logger.Strings("cors_origins", s.cfg.AllowedOrigins))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
