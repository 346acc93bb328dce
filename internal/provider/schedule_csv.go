package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

// ScheduleImporter loads the weekly opening line sheet. The sheet is the
// Tuesday snapshot: whatever spread it carries is the line every later
// prediction and grade references.
type ScheduleImporter struct {
	games repository.GameRepository
	log   *logrus.Logger
}

// NewScheduleImporter creates a schedule importer.
func NewScheduleImporter(repos *repository.Repositories, log *logrus.Logger) *ScheduleImporter {
	return &ScheduleImporter{games: repos.Game, log: log}
}

// ImportCSV parses the sheet and upserts its rows. Returns the number of
// games stored. The header row is required; column order is free. A row
// missing its spread still imports (the game gets the fallback pick later);
// a row missing teams fails the whole import.
func (i *ScheduleImporter) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	games, err := ParseScheduleCSV(r)
	if err != nil {
		return 0, err
	}

	n, err := i.games.UpsertBatch(ctx, games)
	if err != nil {
		return n, fmt.Errorf("storing schedule: %w", err)
	}

	i.log.WithField("games", n).Info("Schedule imported")
	return n, nil
}

var requiredColumns = []string{"week", "home_team", "away_team"}

// ParseScheduleCSV reads the sheet into schedule rows without touching the
// store.
func ParseScheduleCSV(r io.Reader) ([]*models.Game, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading sheet header: %v: %w", err, models.ErrInputUnavailable)
	}
	cols := make(map[string]int, len(header))
	for idx, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("sheet missing column %q: %w", name, models.ErrInputUnavailable)
		}
	}

	var games []*models.Game
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sheet line %d: %v: %w", line, err, models.ErrInputUnavailable)
		}

		g, err := parseScheduleRow(cols, record)
		if err != nil {
			return nil, fmt.Errorf("sheet line %d: %w", line, err)
		}
		games = append(games, g)
	}
	return games, nil
}

func parseScheduleRow(cols map[string]int, record []string) (*models.Game, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	week, err := strconv.Atoi(field("week"))
	if err != nil || week <= 0 {
		return nil, fmt.Errorf("bad week %q: %w", field("week"), models.ErrInputUnavailable)
	}

	home, away := field("home_team"), field("away_team")
	if home == "" || away == "" {
		return nil, fmt.Errorf("missing teams: %w", models.ErrInputUnavailable)
	}

	g := &models.Game{
		Week:         week,
		GameID:       field("game_id"),
		KickoffLocal: field("kickoff_local"),
		HomeTeam:     home,
		AwayTeam:     away,
		Favorite:     field("favorite"),
		Notes:        field("notes"),
	}
	if g.GameID == "" {
		g.GameID = buildGameID(week, away, home)
	}

	if d := field("game_date"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("bad game_date %q: %w", d, models.ErrInputUnavailable)
		}
		g.GameDate = &t
	}

	// The sheet quotes spreads like "-7.5"; decimal parsing rejects the
	// garbage float conversion would silently accept.
	if s := field("spread"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("bad spread %q: %w", s, models.ErrInputUnavailable)
		}
		v := d.InexactFloat64()
		if v > 0 {
			v = -v
		}
		g.OpeningSpread = &v
	}

	// Resolve the underdog from the favorite when the sheet names one.
	switch NormalizeTeam(g.Favorite) {
	case "":
		g.Favorite = ""
	case NormalizeTeam(home):
		g.Favorite = home
		g.Underdog = away
	case NormalizeTeam(away):
		g.Favorite = away
		g.Underdog = home
	default:
		return nil, fmt.Errorf("favorite %q is neither team: %w", g.Favorite, models.ErrInputUnavailable)
	}

	return g, nil
}

// buildGameID derives a stable slug key for rows the sheet left unkeyed.
func buildGameID(week int, awayTeam, homeTeam string) string {
	slug := func(s string) string {
		return strings.ReplaceAll(NormalizeTeam(s), " ", "-")
	}
	return fmt.Sprintf("w%d-%s-%s", week, slug(awayTeam), slug(homeTeam))
}
