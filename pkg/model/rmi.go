package model

import (
	"indexbench/pkg/common"
)

// RMIModel is a two-stage recursive model index. The first stage maps a key
// linearly onto one of Fanout buckets by its position in [Min, Max]; the
// second stage is a linear model per bucket.
type RMIModel struct {
	Min     common.KeyType
	Max     common.KeyType
	Fanout  int
	Buckets []*LinearModel
}

func NewRMIModel(fanout int) *RMIModel {
	if fanout < 1 {
		fanout = 1
	}
	return &RMIModel{
		Fanout:  fanout,
		Buckets: make([]*LinearModel, fanout),
	}
}

func (rmi *RMIModel) bucket(key common.KeyType) int {
	keyRange := rmi.Max - rmi.Min
	if keyRange <= 0 {
		return 0
	}
	idx := int((key - rmi.Min) / keyRange * float64(rmi.Fanout))
	if idx >= rmi.Fanout {
		idx = rmi.Fanout - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// TrainWithPos fits each key to positions[i]. Keys need not be sorted.
func (rmi *RMIModel) TrainWithPos(keys []common.KeyType, positions []int) {
	for i := range rmi.Buckets {
		rmi.Buckets[i] = NewLinearModel()
	}
	if len(keys) == 0 {
		return
	}

	rmi.Min, rmi.Max = keys[0], keys[0]
	for _, k := range keys[1:] {
		rmi.Min = min(rmi.Min, k)
		rmi.Max = max(rmi.Max, k)
	}

	bucketKeys := make([][]common.KeyType, rmi.Fanout)
	bucketPoss := make([][]int, rmi.Fanout)
	for i, key := range keys {
		b := rmi.bucket(key)
		bucketKeys[b] = append(bucketKeys[b], key)
		bucketPoss[b] = append(bucketPoss[b], positions[i])
	}

	for i := 0; i < rmi.Fanout; i++ {
		rmi.Buckets[i].TrainWithPos(bucketKeys[i], bucketPoss[i])
	}
}

func (rmi *RMIModel) Predict(key common.KeyType) int {
	if len(rmi.Buckets) == 0 || rmi.Buckets[0] == nil {
		return 0
	}
	return rmi.Buckets[rmi.bucket(key)].Predict(key)
}

func (rmi *RMIModel) SizeInBytes() int {
	size := 2*8 + 8
	for _, b := range rmi.Buckets {
		if b != nil {
			size += b.SizeInBytes()
		}
	}
	return size
}
