// Package server exposes the pipeline trigger surface over HTTP: scoring,
// grading and recalibration runs plus the ranked weekly board.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/calibration"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/grading"
	"github.com/yourusername/peytons-picks/internal/metrics"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/picks"
)

// WeekScorer runs scoring and serves the board.
type WeekScorer interface {
	ScoreWeek(ctx context.Context, week int) (*picks.Summary, error)
	Board(ctx context.Context, week int) ([]*models.BoardRow, error)
}

// WeekGrader settles a completed week.
type WeekGrader interface {
	GradeWeek(ctx context.Context, week int) (*grading.Summary, error)
}

// Recalibrator refits the probability correction.
type Recalibrator interface {
	Recalibrate(ctx context.Context, throughWeek, window int) (*calibration.Result, error)
}

// SheetImporter loads an opening line sheet.
type SheetImporter interface {
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
}

// DatabasePinger checks store connectivity for the readiness probe.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP trigger surface.
type Server struct {
	scorer     WeekScorer
	grader     WeekGrader
	calibrator Recalibrator
	importer   SheetImporter
	db         DatabasePinger
	cfg        config.ServerConfig
	metricsCfg config.MetricsConfig
	defaultWin int
	log        *logrus.Logger
	httpServer *http.Server

	mu    sync.RWMutex
	ready bool
}

// Deps bundles the server's collaborators.
type Deps struct {
	Scorer     WeekScorer
	Grader     WeekGrader
	Calibrator Recalibrator
	Importer   SheetImporter
	DB         DatabasePinger
}

// New creates the trigger server. defaultWindow is the calibration window
// used when a retrain request does not name one.
func New(deps Deps, cfg config.ServerConfig, metricsCfg config.MetricsConfig, defaultWindow int, log *logrus.Logger) *Server {
	return &Server{
		scorer:     deps.Scorer,
		grader:     deps.Grader,
		calibrator: deps.Calibrator,
		importer:   deps.Importer,
		db:         deps.DB,
		cfg:        cfg,
		metricsCfg: metricsCfg,
		defaultWin: defaultWindow,
		log:        log,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/compute/confidence", s.requireMethod(http.MethodPost, s.handleScoreWeek))
	mux.HandleFunc("/compute/grade-week", s.requireMethod(http.MethodPost, s.handleGradeWeek))
	mux.HandleFunc("/compute/retrain", s.requireMethod(http.MethodPost, s.handleRetrain))
	mux.HandleFunc("/import/schedule", s.requireMethod(http.MethodPost, s.handleImport))
	mux.HandleFunc("/confidence/list", s.requireMethod(http.MethodGet, s.handleBoard))
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	if s.metricsCfg.Enabled {
		path := s.metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, metrics.Handler())
	}
	return mux
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.log.WithField("port", s.cfg.Port).Info("Trigger server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("Trigger server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("Trigger server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("use %s", method))
			return
		}
		next(w, r)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline sentinels to stable status codes: provider
// failures read as bad gateway, an empty calibration window as unprocessable.
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	switch {
	case errors.Is(err, models.ErrInputUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, models.ErrNoGradableData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func weekParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("week")
	if raw == "" {
		return 0, fmt.Errorf("missing week parameter")
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week <= 0 {
		return 0, fmt.Errorf("bad week %q", raw)
	}
	return week, nil
}

func (s *Server) handleScoreWeek(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	summary, err := s.scorer.ScoreWeek(r.Context(), week)
	if err != nil {
		s.log.WithError(err).WithField("week", week).Error("Scoring run failed")
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGradeWeek(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	summary, err := s.grader.GradeWeek(r.Context(), week)
	if err != nil {
		s.log.WithError(err).WithField("week", week).Error("Grading run failed")
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("through_week")
	through, err := strconv.Atoi(raw)
	if err != nil || through <= 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("bad through_week %q", raw))
		return
	}
	window := s.defaultWin
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("bad window %q", raw))
			return
		}
	}

	result, err := s.calibrator.Recalibrate(r.Context(), through, window)
	if err != nil {
		if !errors.Is(err, models.ErrNoGradableData) {
			s.log.WithError(err).WithField("through_week", through).Error("Calibration run failed")
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	n, err := s.importer.ImportCSV(r.Context(), r.Body)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"games": n})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	rows, err := s.scorer.Board(r.Context(), week)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := s.IsReady()
	if healthy {
		checks["service"] = "ok"
	} else {
		checks["service"] = "not_ready"
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	s.writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}
