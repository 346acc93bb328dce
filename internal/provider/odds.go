package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/metrics"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

const oddsCacheKey = "odds_events"

// oddsEvent is one game in the odds API payload.
type oddsEvent struct {
	ID           string      `json:"id"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key     string   `json:"key"`
	Markets []market `json:"markets"`
}

type market struct {
	Key      string    `json:"key"`
	Outcomes []outcome `json:"outcomes"`
}

type outcome struct {
	Name  string   `json:"name"`
	Point *float64 `json:"point"`
}

// OddsClient fetches current spreads and totals from the odds API. Responses
// are cached so repeated refreshes inside the TTL reuse one upstream call;
// the API meters by request.
type OddsClient struct {
	httpClient *RateLimitedHTTPClient
	cfg        config.OddsProviderConfig
	cache      *cache.Cache
	log        *logrus.Logger
}

// NewOddsClient creates an odds API client.
func NewOddsClient(httpClient *RateLimitedHTTPClient, cfg config.OddsProviderConfig, log *logrus.Logger) *OddsClient {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OddsClient{
		httpClient: httpClient,
		cfg:        cfg,
		cache:      cache.New(ttl, 2*ttl),
		log:        log,
	}
}

// FetchEvents returns the current odds board for the configured sport.
func (c *OddsClient) FetchEvents(ctx context.Context) ([]oddsEvent, error) {
	if cached, ok := c.cache.Get(oddsCacheKey); ok {
		return cached.([]oddsEvent), nil
	}

	regions := c.cfg.Regions
	if regions == "" {
		regions = "us"
	}
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", regions)
	q.Set("markets", "spreads,totals")
	q.Set("oddsFormat", "american")
	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.cfg.BaseURL, c.cfg.SportKey, q.Encode())

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("fetching odds: %v: %w", err, models.ErrInputUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("odds api status %d: %s: %w",
			resp.StatusCode, drainBody(resp.Body), models.ErrInputUnavailable)
	}

	var events []oddsEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("decoding odds payload: %v: %w", err, models.ErrInputUnavailable)
	}

	c.cache.Set(oddsCacheKey, events, cache.DefaultExpiration)
	return events, nil
}

// consensus reduces one event's bookmaker lines to a snapshot for the given
// game. The spread is taken from the favorite's outcome in each book's
// spreads market and reduced to the median; the total is the median of the
// over points. Median over mean because a single stale book should not drag
// the line.
func consensus(ev *oddsEvent, g *models.Game) *models.MarketSnapshot {
	favKey := NormalizeTeam(g.Favorite)

	var spreads, totals []float64
	for _, book := range ev.Bookmakers {
		for _, m := range book.Markets {
			switch m.Key {
			case "spreads":
				for _, o := range m.Outcomes {
					if o.Point != nil && NormalizeTeam(o.Name) == favKey {
						spreads = append(spreads, *o.Point)
					}
				}
			case "totals":
				for _, o := range m.Outcomes {
					if o.Point != nil && o.Name == "Over" {
						totals = append(totals, *o.Point)
					}
				}
			}
		}
	}

	snap := &models.MarketSnapshot{
		GameID:       g.GameID,
		BooksCovered: len(ev.Bookmakers),
		FetchedAt:    time.Now(),
	}
	if v, ok := median(spreads); ok {
		snap.ConsensusSpread = &v
	}
	if v, ok := median(totals); ok {
		snap.ConsensusTotal = &v
	}
	return snap
}

// median returns the middle value, averaging the two central values for an
// even count.
func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid], true
	}
	return (s[mid-1] + s[mid]) / 2, true
}

// MarketRefresher joins the odds board to the stored schedule and replaces
// each game's market snapshot.
type MarketRefresher struct {
	odds   *OddsClient
	games  repository.GameRepository
	market repository.MarketRepository
	log    *logrus.Logger
}

// NewMarketRefresher creates a market refresher.
func NewMarketRefresher(odds *OddsClient, repos *repository.Repositories, log *logrus.Logger) *MarketRefresher {
	return &MarketRefresher{odds: odds, games: repos.Game, market: repos.Market, log: log}
}

// RefreshWeek overwrites the market snapshots for every game in the week the
// odds board currently quotes. Games without a quoted event keep their prior
// snapshot. Returns the number of snapshots written.
func (r *MarketRefresher) RefreshWeek(ctx context.Context, week int) (int, error) {
	games, err := r.games.GetByWeek(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("loading week %d schedule: %w", week, err)
	}
	if len(games) == 0 {
		return 0, nil
	}

	events, err := r.odds.FetchEvents(ctx)
	if err != nil {
		return 0, err
	}
	byMatchup := make(map[string]*oddsEvent, len(events))
	for i := range events {
		ev := &events[i]
		byMatchup[MatchupKey(ev.AwayTeam, ev.HomeTeam)] = ev
	}

	written := 0
	for _, game := range games {
		ev, ok := byMatchup[MatchupKey(game.AwayTeam, game.HomeTeam)]
		if !ok || !game.HasSides() {
			continue
		}
		snap := consensus(ev, game)
		if err := r.market.Upsert(ctx, snap); err != nil {
			return written, fmt.Errorf("storing snapshot for %s: %w", game.GameID, err)
		}
		written++
	}

	metrics.MarketSnapshotsCurrent.Set(float64(written))
	r.log.WithFields(logrus.Fields{
		"week":    week,
		"games":   len(games),
		"written": written,
	}).Info("Market snapshots refreshed")

	return written, nil
}
