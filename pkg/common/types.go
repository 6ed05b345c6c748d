package common

import (
	"fmt"
	"time"
)

// KeyType is the key of a generated record. Distributions such as
// exponential and lognormal produce non-integral keys.
type KeyType = float64

// Record pairs a key with the location (page number) it was written to.
type Record struct {
	Key      KeyType
	Location int
}

func (r *Record) String() string {
	return fmt.Sprintf("Record{Key: %g, Location: %d}", r.Key, r.Location)
}

// Result is one benchmark measurement of an index kind over a dataset fold.
type Result struct {
	Dataset     string
	Kind        string
	Fold        int
	TrainTime   time.Duration
	PredictTime float64 // mean nanoseconds per lookup
	MSE         float64
	MAE         float64
	Space       int // bytes
}
