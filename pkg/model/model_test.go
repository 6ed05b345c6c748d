package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"indexbench/pkg/common"
)

func TestLinearModelFitsLine(t *testing.T) {
	keys := []common.KeyType{0, 10, 20, 30, 40}
	lm := NewLinearModel()
	lm.TrainWithPos(keys, []int{0, 1, 2, 3, 4})

	require.InDelta(t, 0.1, lm.Slope, 1e-9)
	require.InDelta(t, 0, lm.Intercept, 1e-9)
	require.Equal(t, 3, lm.Predict(30))
	require.Equal(t, 5, lm.Predict(50))
}

func TestLinearModelDegenerateInput(t *testing.T) {
	lm := NewLinearModel()
	lm.TrainWithPos(nil, nil)
	require.Equal(t, 0, lm.Predict(12))

	lm.TrainWithPos([]common.KeyType{4, 4, 4}, []int{1, 2, 3})
	require.Equal(t, 0.0, lm.Slope)
	require.Equal(t, 2, lm.Predict(4))
}

func TestRMIModelPiecewise(t *testing.T) {
	// Two linear regimes with very different slopes.
	var keys []common.KeyType
	var pos []int
	for i := 0; i < 100; i++ {
		keys = append(keys, common.KeyType(i))
		pos = append(pos, i)
	}
	for i := 0; i < 100; i++ {
		keys = append(keys, common.KeyType(1000+i*100))
		pos = append(pos, 100+i)
	}

	rmi := NewRMIModel(64)
	rmi.TrainWithPos(keys, pos)

	maxErr := 0
	for i, k := range keys {
		d := rmi.Predict(k) - pos[i]
		if d < 0 {
			d = -d
		}
		maxErr = max(maxErr, d)
	}
	require.LessOrEqual(t, maxErr, 2)
	require.Greater(t, rmi.SizeInBytes(), NewLinearModel().SizeInBytes())
}

func TestRMIModelEmptyAndConstant(t *testing.T) {
	rmi := NewRMIModel(0)
	require.Equal(t, 1, rmi.Fanout)
	require.Equal(t, 0, rmi.Predict(3))

	rmi = NewRMIModel(8)
	rmi.TrainWithPos([]common.KeyType{7, 7, 7, 7}, []int{0, 1, 2, 3})
	require.Equal(t, 2, rmi.Predict(7))
	require.Equal(t, 2, rmi.Predict(-100))
}
