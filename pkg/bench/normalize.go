package bench

import (
	"gonum.org/v1/gonum/stat"

	"indexbench/pkg/common"
)

// smoothing keeps groups with zero spread from dividing by zero.
const smoothing = 0.001

// Normalized is a Result whose metric columns have been z-scored within its
// (dataset, kind) group.
type Normalized struct {
	Dataset     string
	Kind        string
	Fold        int
	PredictTime float64
	MSE         float64
	MAE         float64
	Space       float64
}

type groupKey struct{ dataset, kind string }

// Normalize z-scores predict time, MSE, MAE and space per (dataset, kind)
// group: (x - mean) / (std + 0.001). A single-fold group has zero spread.
func Normalize(results []common.Result) []Normalized {
	groups := map[groupKey][]int{}
	for i, r := range results {
		k := groupKey{r.Dataset, r.Kind}
		groups[k] = append(groups[k], i)
	}

	out := make([]Normalized, len(results))
	for _, members := range groups {
		cols := [4][]float64{}
		for _, i := range members {
			r := results[i]
			cols[0] = append(cols[0], r.PredictTime)
			cols[1] = append(cols[1], r.MSE)
			cols[2] = append(cols[2], r.MAE)
			cols[3] = append(cols[3], float64(r.Space))
		}

		var z [4][]float64
		for c, col := range cols {
			z[c] = zscore(col)
		}

		for j, i := range members {
			r := results[i]
			out[i] = Normalized{
				Dataset:     r.Dataset,
				Kind:        r.Kind,
				Fold:        r.Fold,
				PredictTime: z[0][j],
				MSE:         z[1][j],
				MAE:         z[2][j],
				Space:       z[3][j],
			}
		}
	}
	return out
}

func zscore(xs []float64) []float64 {
	mean, std := stat.Mean(xs, nil), 0.0
	if len(xs) > 1 {
		std = stat.StdDev(xs, nil)
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (x - mean) / (std + smoothing)
	}
	return out
}
