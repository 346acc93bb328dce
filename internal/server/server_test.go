package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/peytons-picks/internal/calibration"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/grading"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/picks"
)

type stubScorer struct {
	summary *picks.Summary
	rows    []*models.BoardRow
	err     error
	week    int
}

func (s *stubScorer) ScoreWeek(ctx context.Context, week int) (*picks.Summary, error) {
	s.week = week
	return s.summary, s.err
}
func (s *stubScorer) Board(ctx context.Context, week int) ([]*models.BoardRow, error) {
	return s.rows, s.err
}

type stubGrader struct {
	summary *grading.Summary
	err     error
}

func (s *stubGrader) GradeWeek(ctx context.Context, week int) (*grading.Summary, error) {
	return s.summary, s.err
}

type stubCalibrator struct {
	result *calibration.Result
	err    error
	window int
}

func (s *stubCalibrator) Recalibrate(ctx context.Context, throughWeek, window int) (*calibration.Result, error) {
	s.window = window
	return s.result, s.err
}

type stubImporter struct {
	n   int
	err error
}

func (s *stubImporter) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	io.Copy(io.Discard, r)
	return s.n, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func testServer(deps Deps) *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(deps, config.ServerConfig{Port: 8080}, config.MetricsConfig{Enabled: true}, 4, log)
}

func TestScoreWeekEndpoint(t *testing.T) {
	scorer := &stubScorer{summary: &picks.Summary{Week: 5, Games: 10, Upserts: 9, Skipped: 1}}
	srv := testServer(Deps{Scorer: scorer})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compute/confidence?week=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, scorer.week)

	var got picks.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 9, got.Upserts)
}

func TestScoreWeekRequiresWeek(t *testing.T) {
	srv := testServer(Deps{Scorer: &stubScorer{}})

	for _, target := range []string{"/compute/confidence", "/compute/confidence?week=zero", "/compute/confidence?week=-1"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestScoreWeekRejectsGet(t *testing.T) {
	srv := testServer(Deps{Scorer: &stubScorer{}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/compute/confidence?week=5", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGradeWeekEndpoint(t *testing.T) {
	grader := &stubGrader{summary: &grading.Summary{Week: 5, Graded: 8, Pending: 2}}
	srv := testServer(Deps{Grader: grader})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compute/grade-week?week=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got grading.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 8, got.Graded)
}

func TestRetrainEndpointDefaultsWindow(t *testing.T) {
	cal := &stubCalibrator{result: &calibration.Result{ThroughWeek: 6, CalA: 1.1, CalB: -0.05}}
	srv := testServer(Deps{Calibrator: cal})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compute/retrain?through_week=6", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, cal.window)
}

func TestRetrainEndpointNoData(t *testing.T) {
	cal := &stubCalibrator{err: models.ErrNoGradableData}
	srv := testServer(Deps{Calibrator: cal})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compute/retrain?through_week=6&window=2", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 2, cal.window)
}

func TestProviderFailureReadsAsBadGateway(t *testing.T) {
	scorer := &stubScorer{err: models.ErrInputUnavailable}
	srv := testServer(Deps{Scorer: scorer})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compute/confidence?week=5", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestImportEndpoint(t *testing.T) {
	srv := testServer(Deps{Importer: &stubImporter{n: 12}})

	req := httptest.NewRequest(http.MethodPost, "/import/schedule", strings.NewReader("week,away_team,home_team\n"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"games":12}`, rec.Body.String())
}

func TestBoardEndpoint(t *testing.T) {
	score := 12.5
	scorer := &stubScorer{rows: []*models.BoardRow{
		{Game: models.Game{GameID: "g1", Week: 5}, Score: &score},
	}}
	srv := testServer(Deps{Scorer: scorer})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confidence/list?week=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var rows []*models.BoardRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "g1", rows[0].Game.GameID)
}

func TestHealthAndReady(t *testing.T) {
	srv := testServer(Deps{DB: &stubPinger{}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	srv.SetReady(true)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	srv := testServer(Deps{DB: &stubPinger{err: errors.New("connection refused")}})
	srv.SetReady(true)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(Deps{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
