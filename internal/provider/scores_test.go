package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

type fakeResultRepo struct {
	finals map[string]*models.FinalScore
}

func (f *fakeResultRepo) Upsert(ctx context.Context, s *models.FinalScore) error {
	if f.finals == nil {
		f.finals = make(map[string]*models.FinalScore)
	}
	f.finals[s.GameID] = s
	return nil
}
func (f *fakeResultRepo) GetByWeek(ctx context.Context, week int) (map[string]*models.FinalScore, error) {
	return f.finals, nil
}

func TestScoreFetcherRecordsCompletedGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026", r.URL.Query().Get("year"))
		assert.Equal(t, "5", r.URL.Query().Get("week"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"week":5,"home_team":"Ohio St.","away_team":"Michigan","home_points":24,"away_points":10,"completed":true},
			{"id":2,"week":5,"home_team":"Penn State","away_team":"Iowa","completed":false}
		]`))
	}))
	defer srv.Close()

	games := []*models.Game{
		{Week: 5, GameID: "g1", HomeTeam: "Ohio State", AwayTeam: "Michigan"},
		{Week: 5, GameID: "g2", HomeTeam: "Penn State", AwayTeam: "Iowa"},
	}
	results := &fakeResultRepo{}
	repos := &repository.Repositories{Game: &fakeGameRepo{games: games}, Result: results}

	cfg := config.ScoresProviderConfig{BaseURL: srv.URL, Year: 2026, SeasonType: "regular"}
	client := NewScoresClient(NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), nil), cfg, quietLogger())
	fetcher := NewScoreFetcher(client, repos, quietLogger())

	written, err := fetcher.FetchWeek(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	require.Contains(t, results.finals, "g1")
	assert.Equal(t, 24, results.finals["g1"].HomeScore)
	assert.Equal(t, 10, results.finals["g1"].AwayScore)
	assert.NotContains(t, results.finals, "g2")
}

func TestScoresClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := config.ScoresProviderConfig{BaseURL: srv.URL, Year: 2026, SeasonType: "regular"}
	client := NewScoresClient(NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), nil), cfg, quietLogger())

	_, err := client.FetchWeek(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrInputUnavailable)
}
