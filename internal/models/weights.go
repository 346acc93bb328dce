package models

import (
	"time"

	"github.com/google/uuid"
)

// WeightSet holds the scoring coefficients and probability-curve parameters
// for one calibration generation. Rows are append-only, keyed by the week as
// of which they were derived; the active set at prediction time is the one
// with the highest asof_week, read explicitly by the caller and passed into
// the model (never ambient state). When the table is empty the built-in
// defaults apply.
type WeightSet struct {
	ID         uuid.UUID `db:"id" json:"id"`
	AsofWeek   int       `db:"asof_week" json:"asof_week" validate:"required,gt=0"`
	WMovement  float64   `db:"w_movement" json:"w_movement"`
	WHome      float64   `db:"w_home" json:"w_home"`
	WWeather   float64   `db:"w_weather" json:"w_weather"`
	WInjury    float64   `db:"w_injury" json:"w_injury"`
	WBookSkill float64   `db:"w_bookskill" json:"w_bookskill"`
	WVariance  float64   `db:"w_variance" json:"w_variance"`
	// K is the logistic steepness; Sigma the margin-of-victory standard
	// deviation for the normal-CDF curve.
	K     float64 `db:"k" json:"k"`
	Sigma float64 `db:"sigma" json:"sigma"`
	// CalA and CalB are the affine calibration terms: p' = cal_a*p + cal_b.
	CalA      float64   `db:"cal_a" json:"cal_a"`
	CalB      float64   `db:"cal_b" json:"cal_b"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DefaultWeightSet returns the built-in weights used when no calibrated row
// exists yet.
func DefaultWeightSet() *WeightSet {
	return &WeightSet{
		AsofWeek:   0,
		WMovement:  0.30,
		WHome:      0.10,
		WWeather:   0.10,
		WInjury:    0.15,
		WBookSkill: 0.05,
		WVariance:  1.0,
		K:          0.9,
		Sigma:      13.5,
		CalA:       1.0,
		CalB:       0.0,
	}
}
