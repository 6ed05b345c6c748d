// Package core defines the index abstraction benchmarked by the harness and
// its implementations: the OrderedIndexTree, a library B-tree baseline and
// learned predictors.
package core

import (
	"strings"

	"github.com/pkg/errors"

	"indexbench/pkg/common"
)

// Index maps a key to the location it was stored at. Trees report absent
// keys with ok == false; learned predictors always produce a location once
// built.
type Index interface {
	Kind() string
	Build(records []common.Record) error
	Predict(key common.KeyType) (loc int, ok bool)
	SizeBytes() int
}

const (
	KindBTree       = "bt"
	KindGoogleBTree = "gbt"
	KindLinear      = "lr"
	KindRMI         = "rmi"
)

// Kinds lists every index kind New understands.
var Kinds = []string{KindBTree, KindGoogleBTree, KindLinear, KindRMI}

var (
	ErrUnknownKind = errors.New("core: unknown index kind")
	ErrNotBuilt    = errors.New("core: index not built")
)

type Options struct {
	Degree    int
	RMIFanout int
}

func New(kind string, opts Options) (Index, error) {
	switch strings.ToLower(kind) {
	case KindBTree:
		return NewTreeIndex(opts.Degree)
	case KindGoogleBTree:
		return NewGoogleBTreeIndex(opts.Degree)
	case KindLinear:
		return NewLearnedIndex(KindLinear, opts.RMIFanout)
	case KindRMI:
		return NewLearnedIndex(KindRMI, opts.RMIFanout)
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
}
