// Package datagen produces synthetic key sets drawn from statistical
// distributions, each key paired with the page it would be stored on.
package datagen

import (
	"math/rand/v2"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"

	"indexbench/pkg/artifact"
	"indexbench/pkg/common"
)

type Distribution string

const (
	Random      Distribution = "random"
	Binomial    Distribution = "binomial"
	Poisson     Distribution = "poisson"
	Exponential Distribution = "exponential"
	LogNormal   Distribution = "lognormal"
)

// Distributions lists every supported distribution.
var Distributions = []Distribution{Random, Binomial, Poisson, Exponential, LogNormal}

var ErrUnknownDistribution = errors.New("datagen: unknown distribution")

// ParseDistribution maps a name onto a Distribution.
func ParseDistribution(name string) (Distribution, error) {
	d := Distribution(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Distributions {
		if d == known {
			return d, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownDistribution, "%q (want one of random, binomial, poisson, exponential, lognormal)", name)
}

// Dataset is a generated key column and its location column. Locations[i]
// is the page the i-th generated key was written to.
type Dataset struct {
	Name      string
	Keys      []common.KeyType
	Locations []int
}

func (d *Dataset) Len() int {
	return len(d.Keys)
}

func (d *Dataset) Records() []common.Record {
	out := make([]common.Record, len(d.Keys))
	for i, k := range d.Keys {
		out[i] = common.Record{Key: k, Location: d.Locations[i]}
	}
	return out
}

// Generate draws size keys from dist. Locations are assigned in generation
// order, numPages consecutive records per location.
func Generate(dist Distribution, size, numPages int, seed uint64) (*Dataset, error) {
	if size <= 0 {
		return nil, errors.Errorf("datagen: size must be positive, got %d", size)
	}
	if numPages <= 0 {
		return nil, errors.Errorf("datagen: num_pages must be positive, got %d", numPages)
	}

	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	keys := make([]common.KeyType, size)

	switch dist {
	case Random:
		idxs := make([]int, size)
		sampleuv.WithoutReplacement(idxs, size*5, src)
		r := rand.New(src)
		r.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })
		for i, v := range idxs {
			keys[i] = common.KeyType(v)
		}
	case Binomial:
		fill(keys, distuv.Binomial{N: 500, P: 0.5, Src: src})
	case Poisson:
		fill(keys, distuv.Poisson{Lambda: 8, Src: src})
	case Exponential:
		fill(keys, distuv.Exponential{Rate: 1.0 / 9, Src: src})
	case LogNormal:
		fill(keys, distuv.LogNormal{Mu: 5, Sigma: 5, Src: src})
	default:
		return nil, errors.Wrapf(ErrUnknownDistribution, "%q", dist)
	}

	locs := make([]int, size)
	for i := range locs {
		locs[i] = i / numPages
	}

	return &Dataset{Name: string(dist), Keys: keys, Locations: locs}, nil
}

type sampler interface {
	Rand() float64
}

func fill(keys []common.KeyType, s sampler) {
	for i := range keys {
		keys[i] = s.Rand()
	}
}

func (d *Dataset) Save(path string) error {
	return artifact.Save(path, d)
}

func Load(path string) (*Dataset, error) {
	var d Dataset
	if err := artifact.Load(path, &d); err != nil {
		return nil, err
	}
	if len(d.Keys) != len(d.Locations) {
		return nil, errors.Errorf("datagen: %s has %d keys but %d locations", path, len(d.Keys), len(d.Locations))
	}
	return &d, nil
}

// LoadOrGenerate reads the dataset at path. Only when no file exists there
// is a fresh dataset generated and saved; a file that fails to decode is an
// error and is left untouched. generated reports which branch was taken.
func LoadOrGenerate(path string, dist Distribution, size, numPages int, seed uint64) (ds *Dataset, generated bool, err error) {
	ds, err = Load(path)
	if err == nil {
		return ds, false, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, false, err
	}

	ds, err = Generate(dist, size, numPages, seed)
	if err != nil {
		return nil, false, err
	}
	if err := ds.Save(path); err != nil {
		return nil, false, err
	}
	return ds, true, nil
}
