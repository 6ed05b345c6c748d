package core

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"indexbench/pkg/btree"
	"indexbench/pkg/common"
	"indexbench/pkg/datagen"
)

func records(keys ...common.KeyType) []common.Record {
	out := make([]common.Record, len(keys))
	for i, k := range keys {
		out[i] = common.Record{Key: k, Location: i}
	}
	return out
}

func TestNewResolvesKinds(t *testing.T) {
	for _, kind := range Kinds {
		idx, err := New(kind, Options{Degree: 3, RMIFanout: 16})
		require.NoError(t, err, kind)
		require.Equal(t, kind, idx.Kind())
	}

	_, err := New("avl", Options{Degree: 3})
	require.True(t, errors.Is(err, ErrUnknownKind))

	for _, kind := range []string{KindBTree, KindGoogleBTree} {
		_, err = New(kind, Options{Degree: 1})
		require.True(t, errors.Is(err, btree.ErrInvalidDegree), kind)
	}
}

func TestTreeIndexesAgree(t *testing.T) {
	ds, err := datagen.Generate(datagen.Poisson, 3000, 50, 21)
	require.NoError(t, err)
	recs := ds.Records()

	bt, err := New(KindBTree, Options{Degree: 4})
	require.NoError(t, err)
	gbt, err := New(KindGoogleBTree, Options{Degree: 4})
	require.NoError(t, err)
	require.NoError(t, bt.Build(recs))
	require.NoError(t, gbt.Build(recs))

	first := map[common.KeyType]int{}
	for _, r := range recs {
		if _, ok := first[r.Key]; !ok {
			first[r.Key] = r.Location
		}
	}

	for key := range first {
		loc, ok := gbt.Predict(key)
		require.True(t, ok)
		require.Equal(t, first[key], loc)

		loc, ok = bt.Predict(key)
		require.True(t, ok)
		require.Contains(t, locationsOf(recs, key), loc)
	}

	_, ok := bt.Predict(-1)
	require.False(t, ok)
	_, ok = gbt.Predict(-1)
	require.False(t, ok)

	require.Greater(t, bt.SizeBytes(), 0)
	require.Greater(t, gbt.SizeBytes(), 0)
}

func locationsOf(recs []common.Record, key common.KeyType) []int {
	var out []int
	for _, r := range recs {
		if r.Key == key {
			out = append(out, r.Location)
		}
	}
	return out
}

func TestTreeIndexDistinctKeysExact(t *testing.T) {
	ds, err := datagen.Generate(datagen.Random, 2000, 10, 4)
	require.NoError(t, err)

	idx, err := NewTreeIndex(2)
	require.NoError(t, err)
	require.NoError(t, idx.Build(ds.Records()))
	require.Equal(t, 2000, idx.Tree().Len())

	for i, k := range ds.Keys {
		loc, ok := idx.Predict(k)
		require.True(t, ok)
		require.Equal(t, ds.Locations[i], loc)
	}
}

func TestLearnedIndex(t *testing.T) {
	recs := records(0, 10, 20, 30, 40, 50, 60, 70)

	for _, kind := range []string{KindLinear, KindRMI} {
		t.Run(kind, func(t *testing.T) {
			li, err := NewLearnedIndex(kind, 4)
			require.NoError(t, err)

			_, ok := li.Predict(10)
			require.False(t, ok)
			require.True(t, errors.Is(li.Save(filepath.Join(t.TempDir(), "m.dat")), ErrNotBuilt))

			require.NoError(t, li.Build(recs))
			loc, ok := li.Predict(30)
			require.True(t, ok)
			require.Equal(t, 3, loc)
			require.Equal(t, 0, li.MinErr)
			require.Equal(t, 0, li.MaxErr)

			// Learned predictors answer for keys never inserted too.
			_, ok = li.Predict(35)
			require.True(t, ok)

			diag := li.Diagnostics(recs)
			require.Len(t, diag, len(recs))
			require.Equal(t, 0, diag[4].Error)
			require.Zero(t, MeanAbsError(diag))

			path := filepath.Join(t.TempDir(), kind+".model")
			require.NoError(t, li.Save(path))
			loaded, err := LoadLearnedIndex(path)
			require.NoError(t, err)
			require.Equal(t, kind, loaded.Kind())
			got, ok := loaded.Predict(50)
			require.True(t, ok)
			require.Equal(t, 5, got)
			require.Equal(t, li.SizeBytes(), loaded.SizeBytes())
		})
	}

	_, err := NewLearnedIndex(KindBTree, 4)
	require.True(t, errors.Is(err, ErrUnknownKind))
}

func TestLoadedRMIKeepsFanout(t *testing.T) {
	li, err := NewLearnedIndex(KindRMI, 4)
	require.NoError(t, err)
	require.NoError(t, li.Build(records(0, 10, 20, 30, 40, 50, 60, 70)))

	path := filepath.Join(t.TempDir(), "rmi.model")
	require.NoError(t, li.Save(path))
	loaded, err := LoadLearnedIndex(path)
	require.NoError(t, err)
	require.Equal(t, 4, loaded.Fanout)

	// Rebuilding after a load trains the same shape of model.
	require.NoError(t, loaded.Build(records(5, 15, 25, 35)))
	require.Equal(t, 4, loaded.RMI.Fanout)
	require.Len(t, loaded.RMI.Buckets, 4)
}

func TestMeanAbsError(t *testing.T) {
	require.Zero(t, MeanAbsError(nil))
	require.Equal(t, 2.0, MeanAbsError([]DiagnosticPoint{{Error: -3}, {Error: 1}}))
}
