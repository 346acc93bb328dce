package model

import (
	"math"

	"github.com/yourusername/peytons-picks/internal/models"
)

// CurveNameNormal selects the normal-CDF spread curve in configuration.
const CurveNameNormal = "normal"

// NormalCurve models the favorite's margin of victory as Normal with
// standard deviation sigma and reads the cover probability off the CDF:
// p = 1 - Phi(-spread/sigma). The two side framings are complementary
// because sideSpread flips sign.
type NormalCurve struct{}

// Name returns the configuration name of the curve.
func (NormalCurve) Name() string { return CurveNameNormal }

// Probability returns 1 - Phi(-sideSpread/sigma).
func (NormalCurve) Probability(_ float64, sideSpread float64, ws *models.WeightSet) float64 {
	sigma := ws.Sigma
	if sigma <= 0 {
		sigma = models.DefaultWeightSet().Sigma
	}
	return 1.0 - normalCDF(-sideSpread/sigma)
}

// normalCDF is the standard normal CDF via the error function.
func normalCDF(z float64) float64 {
	return 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
}
