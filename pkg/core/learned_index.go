package core

import (
	"math"

	"github.com/pkg/errors"

	"indexbench/pkg/artifact"
	"indexbench/pkg/common"
	"indexbench/pkg/model"
)

type DiagnosticPoint struct {
	Key          common.KeyType
	RealPos      int
	PredictedPos int
	Error        int
}

// LearnedIndex predicts a record's location from its key with a regression
// model. MinErr and MaxErr bound the residual seen during training. Fanout
// sizes the RMI's second stage on every Build, including after a load.
type LearnedIndex struct {
	KindName string
	Fanout   int
	Linear   *model.LinearModel
	RMI      *model.RMIModel
	MinErr   int
	MaxErr   int
	Built    bool
}

func NewLearnedIndex(kind string, fanout int) (*LearnedIndex, error) {
	if kind != KindLinear && kind != KindRMI {
		return nil, errors.Wrapf(ErrUnknownKind, "%q is not a learned index", kind)
	}
	if fanout <= 0 {
		fanout = 1000
	}
	return &LearnedIndex{KindName: kind, Fanout: fanout}, nil
}

func (li *LearnedIndex) Kind() string { return li.KindName }

func (li *LearnedIndex) Build(records []common.Record) error {
	keys := make([]common.KeyType, len(records))
	locs := make([]int, len(records))
	for i, r := range records {
		keys[i] = r.Key
		locs[i] = r.Location
	}

	li.Linear, li.RMI = nil, nil
	if li.KindName == KindLinear {
		li.Linear = model.NewLinearModel()
		li.Linear.TrainWithPos(keys, locs)
	} else {
		li.RMI = model.NewRMIModel(li.Fanout)
		li.RMI.TrainWithPos(keys, locs)
	}
	li.Built = true

	li.MinErr, li.MaxErr = 0, 0
	for i, key := range keys {
		err := locs[i] - li.predict(key)
		li.MinErr = min(li.MinErr, err)
		li.MaxErr = max(li.MaxErr, err)
	}
	return nil
}

func (li *LearnedIndex) predict(key common.KeyType) int {
	if li.Linear != nil {
		return li.Linear.Predict(key)
	}
	if li.RMI != nil {
		return li.RMI.Predict(key)
	}
	return 0
}

func (li *LearnedIndex) Predict(key common.KeyType) (int, bool) {
	if !li.Built {
		return 0, false
	}
	return li.predict(key), true
}

func (li *LearnedIndex) SizeBytes() int {
	if li.Linear != nil {
		return li.Linear.SizeInBytes()
	}
	if li.RMI != nil {
		return li.RMI.SizeInBytes()
	}
	return 0
}

// Diagnostics samples at most 5000 records and reports the model's residual
// for each.
func (li *LearnedIndex) Diagnostics(records []common.Record) []DiagnosticPoint {
	step := 1
	if len(records) > 5000 {
		step = len(records) / 5000
	}

	results := make([]DiagnosticPoint, 0, len(records)/step+1)
	for i := 0; i < len(records); i += step {
		r := records[i]
		pred := li.predict(r.Key)
		results = append(results, DiagnosticPoint{
			Key:          r.Key,
			RealPos:      r.Location,
			PredictedPos: pred,
			Error:        r.Location - pred,
		})
	}
	return results
}

// MeanAbsError averages the absolute residual over points.
func MeanAbsError(points []DiagnosticPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += math.Abs(float64(p.Error))
	}
	return sum / float64(len(points))
}

// Save writes the trained model to filename.
func (li *LearnedIndex) Save(filename string) error {
	if !li.Built {
		return ErrNotBuilt
	}
	return artifact.Save(filename, li)
}

func LoadLearnedIndex(filename string) (*LearnedIndex, error) {
	var li LearnedIndex
	if err := artifact.Load(filename, &li); err != nil {
		return nil, err
	}
	if li.KindName != KindLinear && li.KindName != KindRMI {
		return nil, errors.Wrapf(ErrUnknownKind, "%s holds %q", filename, li.KindName)
	}
	if li.Fanout <= 0 {
		li.Fanout = 1000
		if li.RMI != nil && li.RMI.Fanout > 0 {
			li.Fanout = li.RMI.Fanout
		}
	}
	return &li, nil
}
