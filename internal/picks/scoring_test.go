package picks

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/peytons-picks/internal/model"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

type fakeGameRepo struct {
	games []*models.Game
	err   error
}

func (f *fakeGameRepo) Upsert(ctx context.Context, g *models.Game) error { return nil }
func (f *fakeGameRepo) UpsertBatch(ctx context.Context, gs []*models.Game) (int, error) {
	return len(gs), nil
}
func (f *fakeGameRepo) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	for _, g := range f.games {
		if g.GameID == gameID {
			return g, nil
		}
	}
	return nil, models.ErrNotFound
}
func (f *fakeGameRepo) GetByWeek(ctx context.Context, week int) ([]*models.Game, error) {
	return f.games, f.err
}

type fakeMarketRepo struct {
	snaps map[string]*models.MarketSnapshot
}

func (f *fakeMarketRepo) Upsert(ctx context.Context, s *models.MarketSnapshot) error { return nil }
func (f *fakeMarketRepo) GetByGameID(ctx context.Context, gameID string) (*models.MarketSnapshot, error) {
	if s, ok := f.snaps[gameID]; ok {
		return s, nil
	}
	return nil, models.ErrNotFound
}
func (f *fakeMarketRepo) GetByWeek(ctx context.Context, week int) (map[string]*models.MarketSnapshot, error) {
	return f.snaps, nil
}

type fakePredictionRepo struct {
	upserts   []*models.Prediction
	upsertErr error
}

func (f *fakePredictionRepo) Upsert(ctx context.Context, p *models.Prediction) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, p)
	return nil
}
func (f *fakePredictionRepo) GetByGameID(ctx context.Context, gameID string) (*models.Prediction, error) {
	return nil, models.ErrNotFound
}
func (f *fakePredictionRepo) GetByWeek(ctx context.Context, week int) ([]*models.Prediction, error) {
	return f.upserts, nil
}
func (f *fakePredictionRepo) ListByWeek(ctx context.Context, week int) ([]*models.BoardRow, error) {
	return nil, nil
}

type fakeWeightRepo struct {
	latest *models.WeightSet
}

func (f *fakeWeightRepo) GetLatest(ctx context.Context) (*models.WeightSet, error) {
	if f.latest == nil {
		return nil, models.ErrNotFound
	}
	return f.latest, nil
}
func (f *fakeWeightRepo) GetByAsofWeek(ctx context.Context, asofWeek int) (*models.WeightSet, error) {
	return nil, models.ErrNotFound
}
func (f *fakeWeightRepo) UpsertCalibration(ctx context.Context, asofWeek int, calA, calB float64) error {
	return nil
}

func scoringFixture(games []*models.Game, snaps map[string]*models.MarketSnapshot) (*ScoringService, *fakePredictionRepo) {
	preds := &fakePredictionRepo{}
	repos := &repository.Repositories{
		Game:       &fakeGameRepo{games: games},
		Market:     &fakeMarketRepo{snaps: snaps},
		Prediction: preds,
		Weight:     &fakeWeightRepo{},
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewScoringService(repos, NewSelector(model.LogisticCurve{}), log), preds
}

func TestScoreWeekUpsertsOneRowPerGame(t *testing.T) {
	games := []*models.Game{
		{Week: 5, GameID: "g1", HomeTeam: "A", AwayTeam: "B", Favorite: "A", Underdog: "B", OpeningSpread: fptr(-7)},
		{Week: 5, GameID: "g2", HomeTeam: "C", AwayTeam: "D", Favorite: "D", Underdog: "C", OpeningSpread: fptr(-3)},
	}
	snaps := map[string]*models.MarketSnapshot{
		"g1": {GameID: "g1", ConsensusSpread: fptr(-8.5), ConsensusTotal: fptr(48), BooksCovered: 5},
	}

	svc, preds := scoringFixture(games, snaps)
	summary, err := svc.ScoreWeek(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Games)
	assert.Equal(t, 2, summary.Upserts)
	assert.Equal(t, 0, summary.Skipped)
	assert.Len(t, preds.upserts, 2)
	for _, p := range preds.upserts {
		assert.Equal(t, 5, p.Week)
		assert.GreaterOrEqual(t, p.CoverProb, model.ProbFloor)
		assert.LessOrEqual(t, p.CoverProb, model.ProbCeil)
	}
}

func TestScoreWeekSkipsUnresolvableAndCountsFallbacks(t *testing.T) {
	games := []*models.Game{
		{Week: 5, GameID: "good", HomeTeam: "A", AwayTeam: "B", Favorite: "A", Underdog: "B", OpeningSpread: fptr(-7)},
		{Week: 5, GameID: "nosides", HomeTeam: "C", AwayTeam: "D"},
		{Week: 5, GameID: "noline", HomeTeam: "E", AwayTeam: "F", Favorite: "E", Underdog: "F"},
	}

	svc, preds := scoringFixture(games, nil)
	summary, err := svc.ScoreWeek(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Games)
	assert.Equal(t, 2, summary.Upserts)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Fallbacks)
	assert.Len(t, preds.upserts, 2)
}

func TestScoreWeekEmptyWeek(t *testing.T) {
	svc, preds := scoringFixture(nil, nil)
	summary, err := svc.ScoreWeek(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Games)
	assert.Empty(t, preds.upserts)
}

func TestScoreWeekAbortsOnStoreError(t *testing.T) {
	games := []*models.Game{
		{Week: 5, GameID: "g1", HomeTeam: "A", AwayTeam: "B", Favorite: "A", Underdog: "B", OpeningSpread: fptr(-7)},
	}
	svc, preds := scoringFixture(games, nil)
	preds.upsertErr = errors.New("connection reset")

	_, err := svc.ScoreWeek(context.Background(), 5)
	assert.Error(t, err)
	assert.Empty(t, preds.upserts)
}

func TestScoreWeekUsesDefaultWeightsWhenNoneStored(t *testing.T) {
	games := []*models.Game{
		{Week: 5, GameID: "g1", HomeTeam: "A", AwayTeam: "B", Favorite: "A", Underdog: "B", OpeningSpread: fptr(-7)},
	}
	svc, preds := scoringFixture(games, nil)

	_, err := svc.ScoreWeek(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, preds.upserts, 1)
	// Default calibration is the identity, so the stored probability stays
	// inside the clamp band without shifting.
	assert.InDelta(t, 100*(preds.upserts[0].CoverProb-0.5), preds.upserts[0].Score, 1e-9)
}
