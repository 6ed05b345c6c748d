package model

import (
	"math"

	"indexbench/pkg/common"
)

// LinearModel is an ordinary least-squares fit of location against key.
type LinearModel struct {
	Slope     float64
	Intercept float64
	n         float64
	sumX      float64
	sumY      float64
	sumXY     float64
	sumXX     float64
}

func NewLinearModel() *LinearModel {
	return &LinearModel{}
}

func (lm *LinearModel) TrainWithPos(keys []common.KeyType, positions []int) {
	lm.n = float64(len(keys))
	lm.sumX, lm.sumY, lm.sumXY, lm.sumXX = 0, 0, 0, 0

	for i, key := range keys {
		x := key
		y := float64(positions[i])

		lm.sumX += x
		lm.sumY += y
		lm.sumXY += x * y
		lm.sumXX += x * x
	}
	lm.solve()
}

func (lm *LinearModel) solve() {
	denominator := lm.n*lm.sumXX - lm.sumX*lm.sumX
	switch {
	case lm.n == 0:
		lm.Slope, lm.Intercept = 0, 0
	case denominator == 0 || math.IsInf(denominator, 0) || math.IsNaN(denominator):
		// All keys equal (or too large to fit): predict the mean position.
		lm.Slope = 0
		lm.Intercept = lm.sumY / lm.n
	default:
		lm.Slope = (lm.n*lm.sumXY - lm.sumX*lm.sumY) / denominator
		lm.Intercept = (lm.sumY - lm.Slope*lm.sumX) / lm.n
	}
}

func (lm *LinearModel) Predict(key common.KeyType) int {
	p := lm.Slope*key + lm.Intercept
	if math.IsNaN(p) {
		return 0
	}
	return int(math.Round(p))
}

// SizeInBytes is the footprint of the parameters needed for prediction.
func (lm *LinearModel) SizeInBytes() int {
	return 2 * 8
}
