package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ChizhovVadim/enginematch/internal/arena"
)

// Source is the running match observed by the server.
type Source interface {
	Config() arena.Config
	Stats() *arena.MatchStats
}

type Server struct {
	source  Source
	runID   string
	started time.Time
	logger  zerolog.Logger
}

func NewServer(source Source, runID string, logger zerolog.Logger) *Server {
	return &Server{
		source:  source,
		runID:   runID,
		started: time.Now(),
		logger:  logger,
	}
}

type statsResponse struct {
	RunID   string  `json:"run_id,omitempty"`
	Engine1 string  `json:"engine1"`
	Engine2 string  `json:"engine2"`
	Games   int     `json:"games"`
	Elapsed float64 `json:"elapsed_seconds"`
	arena.Snapshot
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.Heartbeat("/health"))

	r.Get("/stats", s.handleStats)
	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var config = s.source.Config()
	s.writeJSON(w, http.StatusOK, statsResponse{
		RunID:    s.runID,
		Engine1:  config.Engine1.Name,
		Engine2:  config.Engine2.Name,
		Games:    config.Games,
		Elapsed:  time.Since(s.started).Seconds(),
		Snapshot: s.source.Stats().Snapshot(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn().Err(err).Msg("write response")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		var start = time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var srv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		var shutdownCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info().Str("addr", addr).Msg("status server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
