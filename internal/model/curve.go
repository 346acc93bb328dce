// Package model combines a feature vector and a weight set into a raw score
// and a calibrated cover probability. The two probability curves are
// interchangeable strategies behind the Curve interface, selected by
// configuration.
package model

import (
	"fmt"

	"github.com/yourusername/peytons-picks/internal/features"
	"github.com/yourusername/peytons-picks/internal/models"
)

// Calibrated probabilities are clamped to this range so a stored probability
// can never reach 0 or 1 (which would blow up log-loss later).
const (
	ProbFloor = 0.01
	ProbCeil  = 0.99
)

// Curve maps a raw composite score and a side-signed spread to a raw
// probability in (0,1). sideSpread is +|opening_spread| for the favorite
// framing and -|opening_spread| for the underdog framing.
type Curve interface {
	Name() string
	Probability(raw float64, sideSpread float64, ws *models.WeightSet) float64
}

// Result is one side's evaluation: the raw composite score and the raw and
// calibrated probabilities.
type Result struct {
	Raw        float64
	Prob       float64
	Calibrated float64
}

// Evaluate computes the raw score from the side-framed feature vector and
// runs it through the curve and affine calibration.
func Evaluate(c Curve, vec features.Vector, sideSpread float64, ws *models.WeightSet) Result {
	raw := ws.WMovement*vec.Movement +
		ws.WHome*vec.HomeEdge +
		ws.WWeather*vec.Weather +
		ws.WInjury*vec.Injury +
		ws.WBookSkill*vec.BookSkill -
		ws.WVariance*vec.VariancePenalty

	p := c.Probability(raw, sideSpread, ws)

	return Result{
		Raw:        raw,
		Prob:       p,
		Calibrated: Calibrate(p, ws.CalA, ws.CalB),
	}
}

// Calibrate applies the affine recalibration p' = a*p + b and clamps the
// result into [ProbFloor, ProbCeil].
func Calibrate(p, a, b float64) float64 {
	return Clamp(a*p+b, ProbFloor, ProbCeil)
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ForName resolves a curve by its configuration name.
func ForName(name string) (Curve, error) {
	switch name {
	case "", CurveNameLogistic:
		return LogisticCurve{}, nil
	case CurveNameNormal:
		return NormalCurve{}, nil
	default:
		return nil, fmt.Errorf("unknown probability curve %q", name)
	}
}
