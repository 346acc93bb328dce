package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/metrics"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

// scoredGame is one game in the scores API payload.
type scoredGame struct {
	ID         int64  `json:"id"`
	Week       int    `json:"week"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	HomePoints *int   `json:"home_points"`
	AwayPoints *int   `json:"away_points"`
	Completed  bool   `json:"completed"`
}

// ScoresClient fetches final scores from the results API.
type ScoresClient struct {
	httpClient *RateLimitedHTTPClient
	cfg        config.ScoresProviderConfig
	log        *logrus.Logger
}

// NewScoresClient creates a scores API client.
func NewScoresClient(httpClient *RateLimitedHTTPClient, cfg config.ScoresProviderConfig, log *logrus.Logger) *ScoresClient {
	return &ScoresClient{httpClient: httpClient, cfg: cfg, log: log}
}

// FetchWeek returns every completed game the API reports for the week.
func (c *ScoresClient) FetchWeek(ctx context.Context, week int) ([]scoredGame, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(c.cfg.Year))
	q.Set("week", strconv.Itoa(week))
	q.Set("seasonType", c.cfg.SeasonType)
	endpoint := fmt.Sprintf("%s/games?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("fetching scores: %v: %w", err, models.ErrInputUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("scores api status %d: %s: %w",
			resp.StatusCode, drainBody(resp.Body), models.ErrInputUnavailable)
	}

	var games []scoredGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("decoding scores payload: %v: %w", err, models.ErrInputUnavailable)
	}

	completed := games[:0]
	for _, g := range games {
		if g.Completed && g.HomePoints != nil && g.AwayPoints != nil {
			completed = append(completed, g)
		}
	}
	return completed, nil
}

// ScoreFetcher joins provider finals to the stored schedule and records them.
type ScoreFetcher struct {
	scores  *ScoresClient
	games   repository.GameRepository
	results repository.ResultRepository
	log     *logrus.Logger
}

// NewScoreFetcher creates a score fetcher.
func NewScoreFetcher(scores *ScoresClient, repos *repository.Repositories, log *logrus.Logger) *ScoreFetcher {
	return &ScoreFetcher{scores: scores, games: repos.Game, results: repos.Result, log: log}
}

// FetchWeek records a final for every schedule row the provider reports as
// completed. Finals are written once and never amended afterward; re-running
// after more games finish only adds the newly completed rows.
func (f *ScoreFetcher) FetchWeek(ctx context.Context, week int) (int, error) {
	games, err := f.games.GetByWeek(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("loading week %d schedule: %w", week, err)
	}
	if len(games) == 0 {
		return 0, nil
	}

	finals, err := f.scores.FetchWeek(ctx, week)
	if err != nil {
		return 0, err
	}
	byMatchup := make(map[string]*scoredGame, len(finals))
	for i := range finals {
		g := &finals[i]
		byMatchup[MatchupKey(g.AwayTeam, g.HomeTeam)] = g
	}

	now := time.Now()
	written := 0
	for _, game := range games {
		final, ok := byMatchup[MatchupKey(game.AwayTeam, game.HomeTeam)]
		if !ok {
			continue
		}
		score := &models.FinalScore{
			Week:        week,
			GameID:      game.GameID,
			HomeTeam:    game.HomeTeam,
			AwayTeam:    game.AwayTeam,
			HomeScore:   *final.HomePoints,
			AwayScore:   *final.AwayPoints,
			CompletedAt: &now,
		}
		if err := f.results.Upsert(ctx, score); err != nil {
			return written, fmt.Errorf("storing final for %s: %w", game.GameID, err)
		}
		written++
	}

	f.log.WithFields(logrus.Fields{
		"week":    week,
		"games":   len(games),
		"written": written,
	}).Info("Final scores recorded")

	return written, nil
}
