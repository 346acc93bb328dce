// Package models defines the data records shared across the picks pipeline.
//
// Spread convention: spreads are stored signed from the favorite's point of
// view, negative meaning the favorite is laying points (a 7-point home
// favorite carries spread -7). All cover arithmetic works on the magnitude:
// the favorite covers iff its winning margin exceeds |spread|, and a margin
// exactly equal to |spread| is a push. Grading always references the opening
// (Tuesday) spread, the same line the prediction was generated from.
package models

import "time"

// Game represents one scheduled game in a week. Rows are owned by the
// schedule importer and immutable after import; final scores live in the
// separate results table.
type Game struct {
	Week         int        `db:"week" json:"week" validate:"required,gt=0"`
	GameID       string     `db:"game_id" json:"game_id" validate:"required"`
	GameDate     *time.Time `db:"game_date" json:"game_date"`
	KickoffLocal string     `db:"kickoff_local" json:"kickoff_local"`
	HomeTeam     string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam     string     `db:"away_team" json:"away_team" validate:"required"`
	Favorite     string     `db:"favorite" json:"favorite"`
	Underdog     string     `db:"underdog" json:"underdog"`
	// OpeningSpread is the Tuesday line, favorite POV (negative = laying
	// points). Nil when the sheet carried no line for the game.
	OpeningSpread *float64  `db:"spread" json:"spread"`
	Notes         string    `db:"notes" json:"notes"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// HasSides reports whether both the favorite and underdog are resolved.
func (g *Game) HasSides() bool {
	return g.Favorite != "" && g.Underdog != ""
}

// FavoriteIsHome reports whether the favorite is the home team. Valid only
// when the favorite is resolved.
func (g *Game) FavoriteIsHome() bool {
	return g.Favorite == g.HomeTeam
}

// SpreadMagnitude returns |OpeningSpread| and whether a line exists.
func (g *Game) SpreadMagnitude() (float64, bool) {
	if g.OpeningSpread == nil {
		return 0, false
	}
	s := *g.OpeningSpread
	if s < 0 {
		s = -s
	}
	return s, true
}

// MarketSnapshot is the current market consensus for one game. At most one
// row per game; each refresh overwrites the prior snapshot in full.
type MarketSnapshot struct {
	GameID          string    `db:"game_id" json:"game_id" validate:"required"`
	ConsensusSpread *float64  `db:"consensus_spread" json:"consensus_spread"`
	ConsensusTotal  *float64  `db:"consensus_total" json:"consensus_total"`
	BooksCovered    int       `db:"books_covered" json:"books_covered"`
	FetchedAt       time.Time `db:"fetched_at" json:"fetched_at"`
}

// FinalScore records the final of a completed game. Written once by the
// scores provider and never amended by the pipeline.
type FinalScore struct {
	Week        int        `db:"week" json:"week"`
	GameID      string     `db:"game_id" json:"game_id"`
	HomeTeam    string     `db:"home_team" json:"home_team"`
	AwayTeam    string     `db:"away_team" json:"away_team"`
	HomeScore   int        `db:"home_score" json:"home_score"`
	AwayScore   int        `db:"away_score" json:"away_score"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
}
