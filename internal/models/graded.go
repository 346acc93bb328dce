package models

import "time"

// ATSResult is which side of the spread actually covered.
type ATSResult string

const (
	ATSFavorite ATSResult = "favorite"
	ATSUnderdog ATSResult = "underdog"
	ATSPush     ATSResult = "push"
)

// Outcome is the graded result of a pick against the ATS result.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// GradedPrediction is the terminal record for a completed game: the stored
// pick compared against the actual ATS result. Keyed by (week, game_id) and
// upserted idempotently; re-grading a completed game yields identical values.
// Push games carry nil Outcome/Won/Brier/LogLoss and are excluded from all
// accuracy and loss aggregation.
type GradedPrediction struct {
	Week     int      `db:"week" json:"week"`
	GameID   string   `db:"game_id" json:"game_id"`
	PickTeam string   `db:"pick_team" json:"pick_team"`
	PickSide PickSide `db:"pick_side" json:"pick_side"`
	// TuesdaySpread is the opening line the pick was graded against,
	// favorite POV (see the package spread convention).
	TuesdaySpread float64   `db:"tuesday_spread" json:"tuesday_spread"`
	CoverProb     float64   `db:"cover_prob" json:"cover_prob"`
	Score         float64   `db:"score" json:"score"`
	ATSResult     ATSResult `db:"ats_result" json:"ats_result"`
	Outcome       *Outcome  `db:"outcome" json:"outcome"`
	Won           *bool     `db:"won" json:"won"`
	// CoverMargin is favorite_margin - |spread|: positive means the favorite
	// covered, negative the underdog, zero a push.
	CoverMargin float64   `db:"cover_margin" json:"cover_margin"`
	Brier       *float64  `db:"brier" json:"brier"`
	LogLoss     *float64  `db:"logloss" json:"logloss"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// IsPush reports whether the game landed exactly on the spread.
func (g *GradedPrediction) IsPush() bool {
	return g.ATSResult == ATSPush
}
