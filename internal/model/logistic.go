package model

import (
	"math"

	"github.com/yourusername/peytons-picks/internal/models"
)

// CurveNameLogistic selects the logistic curve in configuration.
const CurveNameLogistic = "logistic"

// LogisticCurve maps the raw composite score through a logistic function
// with steepness k from the weight set.
type LogisticCurve struct{}

// Name returns the configuration name of the curve.
func (LogisticCurve) Name() string { return CurveNameLogistic }

// Probability returns 1 / (1 + e^(-k*raw)). The spread is unused; the raw
// score already carries the side framing.
func (LogisticCurve) Probability(raw float64, _ float64, ws *models.WeightSet) float64 {
	k := ws.K
	if k <= 0 {
		k = models.DefaultWeightSet().K
	}
	return 1.0 / (1.0 + math.Exp(-k*raw))
}
