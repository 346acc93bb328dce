package calibration

import (
	"context"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

type fakeGradedRepo struct {
	rows     []*models.GradedPrediction
	fromSeen int
	thruSeen int
}

func (f *fakeGradedRepo) Upsert(ctx context.Context, g *models.GradedPrediction) error { return nil }
func (f *fakeGradedRepo) GetByWeek(ctx context.Context, week int) ([]*models.GradedPrediction, error) {
	return f.rows, nil
}
func (f *fakeGradedRepo) GetGradableWindow(ctx context.Context, fromWeek, throughWeek int) ([]*models.GradedPrediction, error) {
	f.fromSeen = fromWeek
	f.thruSeen = throughWeek
	return f.rows, nil
}

type fakeWeightRepo struct {
	asofWeek int
	calA     float64
	calB     float64
	writes   int
}

func (f *fakeWeightRepo) GetLatest(ctx context.Context) (*models.WeightSet, error) {
	return nil, models.ErrNotFound
}
func (f *fakeWeightRepo) GetByAsofWeek(ctx context.Context, asofWeek int) (*models.WeightSet, error) {
	return nil, models.ErrNotFound
}
func (f *fakeWeightRepo) UpsertCalibration(ctx context.Context, asofWeek int, calA, calB float64) error {
	f.asofWeek = asofWeek
	f.calA = calA
	f.calB = calB
	f.writes++
	return nil
}

func gradedRow(week int, p float64, won bool) *models.GradedPrediction {
	outcome := models.OutcomeLoss
	if won {
		outcome = models.OutcomeWin
	}
	return &models.GradedPrediction{
		Week:      week,
		GameID:    "g",
		PickSide:  models.PickSideFavorite,
		CoverProb: p,
		Outcome:   &outcome,
		Won:       &won,
	}
}

func calibratorFixture(rows []*models.GradedPrediction) (*Calibrator, *fakeGradedRepo, *fakeWeightRepo) {
	graded := &fakeGradedRepo{rows: rows}
	weights := &fakeWeightRepo{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	repos := &repository.Repositories{Graded: graded, Weight: weights}
	return NewCalibrator(repos, log), graded, weights
}

func TestRecalibratePrefersUpwardShiftWhenPicksRunHot(t *testing.T) {
	// Every pick in the window won at a stored 0.60, so the loss-minimizing
	// candidate is the one pushing probabilities highest.
	rows := []*models.GradedPrediction{
		gradedRow(2, 0.60, true),
		gradedRow(3, 0.60, true),
		gradedRow(4, 0.60, true),
	}

	cal, _, weights := calibratorFixture(rows)
	res, err := cal.Recalibrate(context.Background(), 4, 4)
	require.NoError(t, err)

	assert.Equal(t, 1.2, res.CalA)
	assert.Equal(t, 0.1, res.CalB)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, weights.writes)
	assert.Equal(t, 4, weights.asofWeek)
	assert.Equal(t, 1.2, weights.calA)
	assert.Equal(t, 0.1, weights.calB)
}

func TestRecalibrateConfidentMissRestrainsShift(t *testing.T) {
	// A window of modest winners plus one confident miss. Under the loose
	// metric clamp the miss at 0.80 costs -ln(0.001) once a candidate pushes
	// it past the ceiling, so the search settles on the pure shift rather
	// than the steepest pair.
	rows := make([]*models.GradedPrediction, 0, 16)
	for i := 0; i < 15; i++ {
		rows = append(rows, gradedRow(3, 0.55, true))
	}
	rows = append(rows, gradedRow(4, 0.80, false))

	cal, _, weights := calibratorFixture(rows)
	res, err := cal.Recalibrate(context.Background(), 4, 4)
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.CalA)
	assert.Equal(t, 0.1, res.CalB)
	assert.Equal(t, 1.0, weights.calA)
	assert.Equal(t, 0.1, weights.calB)
}

func TestRecalibrateWindowClampsAtWeekOne(t *testing.T) {
	cal, graded, _ := calibratorFixture([]*models.GradedPrediction{gradedRow(1, 0.55, true)})

	res, err := cal.Recalibrate(context.Background(), 2, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, graded.fromSeen)
	assert.Equal(t, 2, graded.thruSeen)
	assert.Equal(t, 1, res.FromWeek)
	assert.Equal(t, 2, res.ThroughWeek)
}

func TestRecalibrateEmptyWindow(t *testing.T) {
	cal, _, weights := calibratorFixture(nil)

	_, err := cal.Recalibrate(context.Background(), 6, 4)
	assert.ErrorIs(t, err, models.ErrNoGradableData)
	assert.Equal(t, 0, weights.writes)
}

func TestRecalibrateIgnoresPushRows(t *testing.T) {
	push := &models.GradedPrediction{Week: 3, GameID: "p", CoverProb: 0.58, ATSResult: models.ATSPush}
	cal, _, weights := calibratorFixture([]*models.GradedPrediction{push})

	_, err := cal.Recalibrate(context.Background(), 4, 4)
	assert.ErrorIs(t, err, models.ErrNoGradableData)
	assert.Equal(t, 0, weights.writes)
}

func TestRecalibrateIsDeterministic(t *testing.T) {
	rows := []*models.GradedPrediction{
		gradedRow(2, 0.55, true),
		gradedRow(2, 0.62, false),
		gradedRow(3, 0.58, true),
		gradedRow(4, 0.70, false),
		gradedRow(4, 0.53, true),
	}

	cal1, _, _ := calibratorFixture(rows)
	cal2, _, _ := calibratorFixture(rows)

	res1, err := cal1.Recalibrate(context.Background(), 4, 4)
	require.NoError(t, err)
	res2, err := cal2.Recalibrate(context.Background(), 4, 4)
	require.NoError(t, err)

	assert.Equal(t, res1.CalA, res2.CalA)
	assert.Equal(t, res1.CalB, res2.CalB)
	assert.Equal(t, res1.LogLoss, res2.LogLoss)
}

func TestMeanLogLossLowerForBetterFit(t *testing.T) {
	rows := []*models.GradedPrediction{
		gradedRow(1, 0.60, true),
		gradedRow(1, 0.60, true),
	}
	// Shifting winners upward always reduces the loss.
	assert.Less(t, meanLogLoss(rows, 1.1, 0.05), meanLogLoss(rows, 1.0, 0))
	assert.Less(t, meanLogLoss(rows, 1.0, 0), meanLogLoss(rows, 0.8, -0.1))
}

func TestMeanLogLossUsesMetricClamp(t *testing.T) {
	// A candidate pushing a losing pick past the ceiling pays the full
	// -ln(1-0.999), not the storage clamp's -ln(1-0.99).
	miss := []*models.GradedPrediction{gradedRow(1, 0.80, false)}
	assert.InDelta(t, -math.Log(1-metricCeil), meanLogLoss(miss, 1.2, 0.1), 1e-9)

	buried := []*models.GradedPrediction{gradedRow(1, 0.10, true)}
	assert.InDelta(t, -math.Log(metricFloor), meanLogLoss(buried, 0.8, -0.1), 1e-9)
}
